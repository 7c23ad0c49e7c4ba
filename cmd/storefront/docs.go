package main

// @title Storefront API
// @version 1.0
// @description Shop catalog, debounced category-scoped search and per-session carts.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

// @tag.name Pages
// @tag.description Page definitions and their category bars

// @tag.name Catalog
// @tag.description Categories and products

// @tag.name Session
// @tag.description Shopper sessions

// @tag.name Cart
// @tag.description Cart of the current session

// @tag.name Search
// @tag.description Product search

// @tag.name Navigation
// @tag.description Active category and scroll targets

// @tag.name Health
// @tag.description Health check endpoints
