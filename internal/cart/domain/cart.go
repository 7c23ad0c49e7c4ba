package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	catalog "github.com/tair/storefront/internal/catalog/domain"
)

var (
	ErrCorruptCart     = errors.New("corrupt cart data")
	ErrInvalidQuantity = errors.New("quantity change must not be zero")
)

// Line is one cart entry: a product snapshot and the selected quantity
type Line struct {
	ProductID   string `json:"id,omitempty"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Img         string `json:"img"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description,omitempty"`
}

// Key is the line identity: the product id, or the name for products that
// carry no id (entries persisted before ids existed).
func (l Line) Key() string {
	if l.ProductID != "" {
		return l.ProductID
	}
	return l.Name
}

// Subtotal returns price * quantity
func (l Line) Subtotal() int {
	return l.Price * l.Quantity
}

// LineFromProduct snapshots p with the given quantity
func LineFromProduct(p catalog.Product, quantity int) Line {
	return Line{
		ProductID:   p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Img:         p.Img,
		Quantity:    quantity,
		Description: p.Description,
	}
}

// Cart is an ordered list of lines; order is the order products were first added.
// Keys are unique and every quantity is at least 1.
type Cart struct {
	lines []Line
}

// NewCart builds a cart from lines, validating the cart invariants
func NewCart(lines []Line) (Cart, error) {
	seen := make(map[string]struct{}, len(lines))
	out := make([]Line, 0, len(lines))
	for i, l := range lines {
		if l.Name == "" && l.ProductID == "" {
			return Cart{}, fmt.Errorf("%w: line %d has no name", ErrCorruptCart, i)
		}
		if l.Quantity < 1 {
			return Cart{}, fmt.Errorf("%w: line %q has quantity %d", ErrCorruptCart, l.Key(), l.Quantity)
		}
		if _, dup := seen[l.Key()]; dup {
			return Cart{}, fmt.Errorf("%w: duplicate line %q", ErrCorruptCart, l.Key())
		}
		seen[l.Key()] = struct{}{}
		out = append(out, l)
	}
	return Cart{lines: out}, nil
}

// Lines returns a copy of the cart lines
func (c Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct lines
func (c Cart) Len() int {
	return len(c.lines)
}

// Find returns the line with key
func (c Cart) Find(key string) (Line, bool) {
	if i := c.index(key); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

func (c Cart) index(key string) int {
	for i, l := range c.lines {
		if l.Key() == key {
			return i
		}
	}
	return -1
}

// Add increments the line of p, appending a new line with quantity 1 when absent
func (c *Cart) Add(p catalog.Product) Line {
	key := LineFromProduct(p, 0).Key()
	if i := c.index(key); i >= 0 {
		c.lines[i].Quantity++
		return c.lines[i]
	}

	l := LineFromProduct(p, 1)
	c.lines = append(c.lines, l)
	return l
}

// UpdateQuantity adds delta to the line's quantity, clamping at zero. A line
// reaching zero is removed. Unknown keys are ignored (found == false).
func (c *Cart) UpdateQuantity(key string, delta int) (line Line, found bool) {
	i := c.index(key)
	if i < 0 {
		return Line{}, false
	}

	q := c.lines[i].Quantity + delta
	if q < 0 {
		q = 0
	}
	c.lines[i].Quantity = q
	line = c.lines[i]

	if q == 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
	return line, true
}

// Remove deletes the line with key and reports whether it existed
func (c *Cart) Remove(key string) (Line, bool) {
	i := c.index(key)
	if i < 0 {
		return Line{}, false
	}
	l := c.lines[i]
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return l, true
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.lines = nil
}

// TotalPrice sums price * quantity over all lines
func (c Cart) TotalPrice() int {
	total := 0
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// TotalCount sums quantities over all lines
func (c Cart) TotalCount() int {
	count := 0
	for _, l := range c.lines {
		count += l.Quantity
	}
	return count
}

// MarshalJSON encodes the cart as a JSON array of lines
func (c Cart) MarshalJSON() ([]byte, error) {
	if c.lines == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.lines)
}

// UnmarshalJSON decodes a JSON array of lines. A JSON null yields an empty cart.
func (c *Cart) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = Cart{}
		return nil
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}

	parsed, err := NewCart(lines)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Decode parses a persisted cart
func Decode(raw string) (Cart, error) {
	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		if errors.Is(err, ErrCorruptCart) {
			return Cart{}, err
		}
		return Cart{}, fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}
	return c, nil
}

// Encode serializes the cart for storage
func Encode(c Cart) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
