package clients

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/canineracks/inventory-console/apperrors"
	"github.com/canineracks/inventory-console/models"
)

// ProductFields carries the scalar fields of a create/update submission.
// All values are stringified into multipart form fields on the wire.
type ProductFields struct {
	Name           string
	Description    string
	Quantity       int
	ProductCode    string
	SellingPrice   float64
	PurchasedPrice float64
	SupplierName   string
	MainCategory   string
	SubCategory    string
	DatePurchased  string // YYYY-MM-DD
}

// ImageFile is an image attached to a product submission.
type ImageFile struct {
	Filename string
	Content  []byte
}

// ListProducts fetches the full product collection for the tenant.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/inventory/products/", nil, "", true, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches one product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, "/inventory/products/"+id+"/", nil, "", true, &product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// CreateProduct submits a new product as multipart form data. The image
// is required by the API on create; validation of that rule happens in
// the form layer before this call is made.
func (c *Client) CreateProduct(ctx context.Context, fields ProductFields, image *ImageFile) (models.Product, error) {
	body, contentType, err := encodeMultipart(fields, image)
	if err != nil {
		return models.Product{}, apperrors.Network("Failed to encode product form", err)
	}

	var product models.Product
	if err := c.do(ctx, http.MethodPost, "/inventory/products/", body, contentType, true, &product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// UpdateProduct replaces a product's fields via PUT. Pass a nil image to
// keep the existing one.
func (c *Client) UpdateProduct(ctx context.Context, id string, fields ProductFields, image *ImageFile) (models.Product, error) {
	body, contentType, err := encodeMultipart(fields, image)
	if err != nil {
		return models.Product{}, apperrors.Network("Failed to encode product form", err)
	}

	var product models.Product
	if err := c.do(ctx, http.MethodPut, "/inventory/products/"+id+"/", body, contentType, true, &product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// PatchQuantity updates only a product's quantity. Used by the batch
// quantity confirmation on the dashboard.
func (c *Client) PatchQuantity(ctx context.Context, id string, quantity int) (models.Product, error) {
	body, err := jsonBody(map[string]int{"quantity": quantity})
	if err != nil {
		return models.Product{}, apperrors.Network("Failed to build request", err)
	}

	var product models.Product
	if err := c.do(ctx, http.MethodPatch, "/inventory/products/"+id+"/", body, "application/json", true, &product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// DeleteProduct removes a product. The API responds 204 on success.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/inventory/products/"+id+"/", nil, "", true, nil)
}

// GetHistory fetches a product's transaction history, newest first.
func (c *Client) GetHistory(ctx context.Context, id string) ([]models.TransactionHistoryEntry, error) {
	var entries []models.TransactionHistoryEntry
	if err := c.do(ctx, http.MethodGet, "/inventory/products/"+id+"/history/", nil, "", true, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// encodeMultipart writes the scalar fields and optional image part into a
// multipart body and returns it with its content type.
func encodeMultipart(fields ProductFields, image *ImageFile) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	formFields := map[string]string{
		"name":            fields.Name,
		"description":     fields.Description,
		"quantity":        strconv.Itoa(fields.Quantity),
		"product_code":    fields.ProductCode,
		"selling_price":   strconv.FormatFloat(fields.SellingPrice, 'f', 2, 64),
		"purchased_price": strconv.FormatFloat(fields.PurchasedPrice, 'f', 2, 64),
		"supplier_name":   fields.SupplierName,
		"main_category":   fields.MainCategory,
		"sub_category":    fields.SubCategory,
		"date_purchased":  fields.DatePurchased,
	}
	for key, value := range formFields {
		if err := w.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", key, err)
		}
	}

	if image != nil {
		part, err := w.CreateFormFile("image", image.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(image.Content); err != nil {
			return nil, "", fmt.Errorf("write image part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
