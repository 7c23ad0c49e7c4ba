package domain

// Category links of the shop catalog
const (
	CategoryPrinters    = "printers"
	CategoryScanners    = "scanners"
	CategoryCashDrawers = "cash-drawers"
	CategoryAssemblies  = "assemblies"
	CategoryLabels      = "labels"
	CategoryEquipment   = "equipment"
)

// DefaultCategories lists the shop sections in display order
func DefaultCategories() []Category {
	return []Category{
		{Name: "طابعات حرارية", Link: CategoryPrinters},
		{Name: "قارئات الباركود", Link: CategoryScanners},
		{Name: "ادراج النقود", Link: CategoryCashDrawers},
		{Name: "تجميعات", Link: CategoryAssemblies},
		{Name: "ورق وملصقات", Link: CategoryLabels},
		{Name: "معدات إعلام آلي", Link: CategoryEquipment},
	}
}

// DefaultProducts returns the shop's product list. Names repeat inside a
// category on purpose: the shop lists variants under the same name.
func DefaultProducts() map[string][]Product {
	return map[string][]Product{
		CategoryPrinters: {
			{Name: "طابعة حرارية Xprinter XP-350B", Price: 16500, Img: "/images/printer-1.png", Description: "طابعة حرارية عالية الأداء"},
			{Name: "طابعة حرارية Xprinter XP-370B", Price: 17000, Img: "/images/printer-2.png", Description: "طابعة حرارية موثوقة"},
			{Name: "طابعة حرارية Xprinter XP-323B", Price: 18500, Img: "/images/printer-3.png", Description: "طابعة حرارية سريعة"},
			{Name: "طابعة حرارية Xprinter XP-350B", Price: 16500, Img: "/images/printer-1.png", Description: "طابعة حرارية مدمجة"},
			{Name: "طابعة حرارية Xprinter XP-370B", Price: 17000, Img: "/images/printer-2.png", Description: "طابعة حرارية اقتصادية"},
			{Name: "طابعة حرارية Xprinter XP-323B", Price: 18500, Img: "/images/printer-3.png", Description: "طابعة حرارية متعددة الاستخدامات"},
		},
		CategoryScanners: {
			{Name: "قارئ باركود مكتبي Henex HC-666", Price: 15000, Img: "/images/scanner-1.png", Description: "قارئ باركود سريع"},
			{Name: "قارئ باركود مكتبي Henex HC-6052", Price: 16000, Img: "/images/scanner-2.png", Description: "قارئ باركود دقيق"},
			{Name: "قارئ باركود مكتبي Henex HC-777", Price: 18000, Img: "/images/scanner-3.png", Description: "قارئ باركود متين"},
			{Name: "قارئ باركود مكتبي Henex HC-666", Price: 15000, Img: "/images/scanner-1.png", Description: "قارئ باركود لاسلكي"},
			{Name: "قارئ باركود مكتبي Henex HC-6052", Price: 16000, Img: "/images/scanner-2.png", Description: "قارئ باركود مريح"},
			{Name: "قارئ باركود مكتبي Henex HC-777", Price: 18000, Img: "/images/scanner-3.png", Description: "قارئ باركود عالي الدقة"},
		},
		CategoryCashDrawers: {
			{Name: "درج النقود الفضي", Price: 9000, Img: "/images/cash-drawer-1.png", Description: "درج نقود فضي متين"},
			{Name: "درج النقود الذهبي", Price: 10500, Img: "/images/cash-drawer-2.png", Description: "درج نقود ذهبي فاخر"},
			{Name: "درج النقود الأسود", Price: 11000, Img: "/images/cash-drawer-3.png", Description: "درج نقود أسود أنيق"},
			{Name: "درج النقود الفضي", Price: 9000, Img: "/images/cash-drawer-1.png", Description: "درج نقود فضي عملي"},
			{Name: "درج النقود الذهبي", Price: 10500, Img: "/images/cash-drawer-2.png", Description: "درج نقود ذهبي متين"},
			{Name: "درج النقود الأسود", Price: 11000, Img: "/images/cash-drawer-3.png", Description: "درج نقود أسود فاخر"},
		},
		CategoryAssemblies: {
			{Name: "تجميعة احترافية", Price: 55000, Img: "/images/assembly-1.png", Description: "تجميعة كمبيوتر للألعاب"},
			{Name: "تجميعة اقتصادية", Price: 30000, Img: "/images/assembly-2.png", Description: "تجميعة كمبيوتر اقتصادية"},
			{Name: "تجميعة مكتبية", Price: 40000, Img: "/images/assembly-3.png", Description: "تجميعة كمبيوتر مكتبية"},
			{Name: "تجميعة احترافية", Price: 55000, Img: "/images/assembly-1.png", Description: "تجميعة كمبيوتر قوية"},
			{Name: "تجميعة اقتصادية", Price: 30000, Img: "/images/assembly-2.png", Description: "تجميعة كمبيوتر ميسورة"},
			{Name: "تجميعة مكتبية", Price: 40000, Img: "/images/assembly-3.png", Description: "تجميعة كمبيوتر عملية"},
		},
		CategoryLabels: {
			{Name: "ملصقات حرارية", Price: 2000, Img: "/images/label-1.png", Description: "ملصقات حرارية عالية الجودة"},
			{Name: "ملصقات ملونة", Price: 3000, Img: "/images/label-2.png", Description: "ملصقات ملونة زاهية"},
			{Name: "ملصقات شفافة", Price: 4000, Img: "/images/label-3.png", Description: "ملصقات شفافة متينة"},
			{Name: "ملصقات حرارية", Price: 2000, Img: "/images/label-1.png", Description: "ملصقات حرارية اقتصادية"},
			{Name: "ملصقات ملونة", Price: 3000, Img: "/images/label-2.png", Description: "ملصقات ملونة متنوعة"},
			{Name: "ملصقات شفافة", Price: 4000, Img: "/images/label-3.png", Description: "ملصقات شفافة عالية الجودة"},
		},
		CategoryEquipment: {
			{Name: "معدات إعلامية متطورة", Price: 75000, Img: "/images/equipment-1.png", Description: "معدات إعلامية متطورة"},
			{Name: "معدات إعلامية بسيطة", Price: 25000, Img: "/images/equipment-2.png", Description: "معدات إعلامية بسيطة"},
			{Name: "معدات إعلامية قياسية", Price: 50000, Img: "/images/equipment-3.png", Description: "معدات إعلامية قياسية"},
			{Name: "معدات إعلامية متطورة", Price: 75000, Img: "/images/equipment-1.png", Description: "معدات إعلامية حديثة"},
			{Name: "معدات إعلامية بسيطة", Price: 25000, Img: "/images/equipment-2.png", Description: "معدات إعلامية ميسورة"},
			{Name: "معدات إعلامية قياسية", Price: 50000, Img: "/images/equipment-3.png", Description: "معدات إعلامية موثوقة"},
		},
	}
}

// Default returns the shop catalog
func Default() *Catalog {
	return NewCatalog(DefaultCategories(), DefaultProducts())
}
