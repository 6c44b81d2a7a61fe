package client

import (
	"encoding/json"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/shopspring/decimal"
)

// Wire types. They mirror the backend's JSON and are mapped to models at the
// edge so nothing above this package sees "_id" or "$oid".

type userDTO struct {
	ID              models.ObjectID `json:"id"`
	MongoID         models.ObjectID `json:"_id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	IsEmailVerified bool            `json:"isEmailVerified"`
	Avatar          string          `json:"avatar"`
}

func (u userDTO) toModel() models.User {
	return models.User{
		ID:              models.FirstID(u.ID, u.MongoID),
		Name:            u.Name,
		Email:           u.Email,
		IsEmailVerified: u.IsEmailVerified,
		Avatar:          u.Avatar,
	}
}

type tokenDTO struct {
	Token   string `json:"token"`
	Expires string `json:"expires"`
}

type authResponse struct {
	User   userDTO `json:"user"`
	Tokens struct {
		Access  tokenDTO `json:"access"`
		Refresh tokenDTO `json:"refresh"`
	} `json:"tokens"`
}

func (r authResponse) toModel() models.Session {
	return models.Session{
		User: r.User.toModel(),
		Tokens: models.TokenPair{
			Access:  models.Token{Token: r.Tokens.Access.Token, Expires: r.Tokens.Access.Expires},
			Refresh: models.Token{Token: r.Tokens.Refresh.Token, Expires: r.Tokens.Refresh.Expires},
		},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type namedDTO struct {
	ID   models.ObjectID `json:"id"`
	Name string          `json:"name"`
}

type imageDTO struct {
	ID  models.ObjectID `json:"id"`
	Src string          `json:"src"`
}

type variantDTO struct {
	ID       models.ObjectID `json:"id"`
	SKU      string          `json:"sku"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Images   []string        `json:"images"`
}

type productDTO struct {
	ID          models.ObjectID `json:"id"`
	MongoID     models.ObjectID `json:"_id"`
	Title       string          `json:"title"`
	MRP         decimal.Decimal `json:"mrp"`
	Category    namedDTO        `json:"category"`
	InStock     bool            `json:"inStock"`
	SKU         string          `json:"SKU"`
	CreatedOn   string          `json:"created_on"`
	Description string          `json:"description"`
	Discount    models.Discount `json:"discount"`
	Brand       *namedDTO       `json:"brand"`
	Images      []imageDTO      `json:"images"`
	Variants    []variantDTO    `json:"variant"`
}

func (p productDTO) toModel() models.Product {
	out := models.Product{
		ID:          models.FirstID(p.ID, p.MongoID),
		Title:       p.Title,
		MRP:         p.MRP,
		Discount:    p.Discount,
		Category:    models.Category{ID: string(p.Category.ID), Name: p.Category.Name},
		InStock:     p.InStock,
		SKU:         p.SKU,
		Description: p.Description,
		CreatedOn:   p.CreatedOn,
	}
	if p.Brand != nil {
		out.Brand = &models.Brand{ID: string(p.Brand.ID), Name: p.Brand.Name}
	}
	for _, img := range p.Images {
		out.Images = append(out.Images, models.Image{ID: string(img.ID), Src: img.Src})
	}
	for _, v := range p.Variants {
		out.Variants = append(out.Variants, models.Variant{
			ID: string(v.ID), SKU: v.SKU, Quantity: v.Quantity, Price: v.Price, Images: v.Images,
		})
	}
	return out
}

// pageResponse is the paginated list envelope. limit is sometimes a string,
// sometimes a number, and never needed.
type pageResponse[T any] struct {
	Results      []T             `json:"results"`
	Page         int             `json:"page"`
	Limit        json.RawMessage `json:"limit"`
	TotalPages   int             `json:"totalPages"`
	TotalResults int             `json:"totalResults"`
}

type cartProductDTO struct {
	ID      models.ObjectID `json:"id"`
	MongoID models.ObjectID `json:"_id"`
	Title   string          `json:"title"`
	Images  []struct {
		Src string `json:"src"`
	} `json:"images"`
}

type refDTO struct {
	ID      models.ObjectID `json:"id"`
	MongoID models.ObjectID `json:"_id"`
}

type cartLineDTO struct {
	MongoID  models.ObjectID `json:"_id"`
	ID       models.ObjectID `json:"id"`
	Title    string          `json:"title"`
	Product  cartProductDTO  `json:"product"`
	MRP      decimal.Decimal `json:"mrp"`
	Discount models.Discount `json:"discount"`
	Brand    string          `json:"brand"`
	Count    int             `json:"count"`
	User     refDTO          `json:"user"`
}

func (c cartLineDTO) toModel() models.CartLine {
	line := models.CartLine{
		ID:        models.FirstID(c.MongoID, c.ID),
		Title:     c.Title,
		ProductID: models.FirstID(c.Product.MongoID, c.Product.ID),
		MRP:       c.MRP,
		Discount:  c.Discount,
		Brand:     c.Brand,
		Quantity:  c.Count,
		UserID:    models.FirstID(c.User.MongoID, c.User.ID),
	}
	if len(c.Product.Images) > 0 {
		line.ProductImage = c.Product.Images[0].Src
	}
	return line
}

type cartProductRequest struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	MRP      json.Number     `json:"mrp"`
	Discount models.Discount `json:"discount"`
	Brand    string          `json:"brand,omitempty"`
}

type addToCartRequest struct {
	Product  cartProductRequest `json:"product"`
	Quantity int                `json:"quantity"`
}

type updateCartRequest struct {
	Count int `json:"count"`
}

// envelope wraps GET /v1/address.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type wishlistDTO struct {
	MongoID   models.ObjectID `json:"_id"`
	ID        models.ObjectID `json:"id"`
	Title     string          `json:"title"`
	Product   *productDTO     `json:"product"`
	MRP       decimal.Decimal `json:"mrp"`
	Discount  models.Discount `json:"discount"`
	Brand     string          `json:"brand"`
	Image     string          `json:"image"`
	User      *userDTO        `json:"user"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

func (w wishlistDTO) toModel() models.WishlistEntry {
	e := models.WishlistEntry{
		ID:        models.FirstID(w.MongoID, w.ID),
		Title:     w.Title,
		MRP:       w.MRP,
		Discount:  w.Discount,
		Brand:     w.Brand,
		Image:     w.Image,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	if e.Brand == "" {
		e.Brand = "N/A"
	}
	if w.Product != nil {
		e.ProductID = models.FirstID(w.Product.ID, w.Product.MongoID)
	}
	if w.User != nil {
		e.UserID = models.FirstID(w.User.ID, w.User.MongoID)
	}
	return e
}

type addToWishlistRequest struct {
	Title    string          `json:"title"`
	Product  string          `json:"product"`
	MRP      json.Number     `json:"mrp"`
	Discount models.Discount `json:"discount"`
	Brand    string          `json:"brand"`
	Image    string          `json:"image,omitempty"`
}

type paymentOrderRequest struct {
	Amount  json.Number `json:"amount"`
	OrderID string      `json:"orderId"`
}

type paymentOrderResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    *struct {
		GatewayOrderID string `json:"razorpayOrderId"`
		Amount         int64  `json:"amount"`
		Currency       string `json:"currency"`
		OrderID        string `json:"orderId"`
		Key            string `json:"key"`
		CustomerEmail  string `json:"customerEmail"`
		CustomerPhone  string `json:"customerPhone"`
		CustomerName   string `json:"customerName"`
	} `json:"data"`
}

type paymentVerifyRequest struct {
	GatewayOrderID   string `json:"razorpayOrderId"`
	GatewayPaymentID string `json:"razorpayPaymentId"`
	Signature        string `json:"razorpaySignature"`
	OrderID          string `json:"orderId"`
}

type paymentVerifyResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}
