package mockapi

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/canineracks/inventory-console/models"
)

// listProducts returns the whole collection in insertion order.
func (s *Server) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.listProducts())
}

// getProduct returns one product or the DRF-style 404 shape.
func (s *Server) getProduct(c *gin.Context) {
	product, ok := s.store.ProductByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	c.JSON(http.StatusOK, product)
}

// createProduct accepts the multipart create form. The image part is
// required on create.
func (s *Server) createProduct(c *gin.Context) {
	product, fieldErrs := bindProductForm(c)
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, fieldErrs)
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"image": []string{"No file was submitted."}})
		return
	}
	defer file.Close()
	imageData, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"image": []string{"Could not read the submitted file."}})
		return
	}

	product.ID = uuid.NewString()
	product.Image = "/api/media/" + product.ID

	s.store.mu.Lock()
	s.store.products[product.ID] = &storedProduct{
		product:   product,
		imageData: imageData,
		imageType: header.Header.Get("Content-Type"),
	}
	s.store.order = append(s.store.order, product.ID)
	s.store.mu.Unlock()

	s.store.recordHistory(product.ID, models.HistoryActionCreated, product.Quantity)

	zap.L().Info("Product created",
		zap.String("id", product.ID),
		zap.String("name", product.Name),
		zap.Int("quantity", product.Quantity),
	)
	c.JSON(http.StatusCreated, product)
}

// updateProduct replaces a product's fields. The image is kept when no
// new file is attached.
func (s *Server) updateProduct(c *gin.Context) {
	id := c.Param("id")
	existing, ok := s.store.ProductByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	product, fieldErrs := bindProductForm(c)
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, fieldErrs)
		return
	}
	product.ID = id
	product.Image = existing.Image

	var imageData []byte
	var imageType string
	if file, header, err := c.Request.FormFile("image"); err == nil {
		defer file.Close()
		if imageData, err = io.ReadAll(file); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"image": []string{"Could not read the submitted file."}})
			return
		}
		imageType = header.Header.Get("Content-Type")
		product.Image = "/api/media/" + id
	}

	s.store.mu.Lock()
	sp := s.store.products[id]
	delta := product.Quantity - sp.product.Quantity
	sp.product = product
	if imageData != nil {
		sp.imageData = imageData
		sp.imageType = imageType
	}
	s.store.mu.Unlock()

	s.store.recordHistory(id, models.HistoryActionUpdated, delta)
	c.JSON(http.StatusOK, product)
}

// patchProduct updates only the quantity. Used by the dashboard's batch
// confirmation.
func (s *Server) patchProduct(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || *req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"quantity": []string{"A non-negative integer is required."}})
		return
	}

	s.store.mu.Lock()
	sp, ok := s.store.products[id]
	if !ok {
		s.store.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	delta := *req.Quantity - sp.product.Quantity
	sp.product.Quantity = *req.Quantity
	product := sp.product
	s.store.mu.Unlock()

	s.store.recordHistory(id, models.HistoryActionQuantityChanged, delta)
	c.JSON(http.StatusOK, product)
}

// deleteProduct removes a product, responding 204 on success.
func (s *Server) deleteProduct(c *gin.Context) {
	if !s.store.removeProduct(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	c.Status(http.StatusNoContent)
}

// getHistory returns a product's transaction history, newest first.
func (s *Server) getHistory(c *gin.Context) {
	id := c.Param("id")
	if _, ok := s.store.ProductByID(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	c.JSON(http.StatusOK, s.store.historyFor(id))
}

// serveImage streams a product's stored image bytes.
func (s *Server) serveImage(c *gin.Context) {
	s.store.mu.Lock()
	sp, ok := s.store.products[c.Param("id")]
	var data []byte
	var contentType string
	if ok {
		data = sp.imageData
		contentType = sp.imageType
	}
	s.store.mu.Unlock()

	if !ok || len(data) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, data)
}

// bindProductForm reads the scalar multipart fields, collecting DRF-style
// per-field errors.
func bindProductForm(c *gin.Context) (models.Product, map[string][]string) {
	fieldErrs := make(map[string][]string)

	required := func(name string) string {
		v := c.PostForm(name)
		if v == "" {
			fieldErrs[name] = append(fieldErrs[name], "This field is required.")
		}
		return v
	}

	product := models.Product{
		Name:          required("name"),
		Description:   required("description"),
		ProductCode:   required("product_code"),
		SupplierName:  required("supplier_name"),
		MainCategory:  required("main_category"),
		SubCategory:   required("sub_category"),
		DatePurchased: required("date_purchased"),
	}

	if raw := required("quantity"); raw != "" {
		q, err := strconv.Atoi(raw)
		if err != nil || q < 0 {
			fieldErrs["quantity"] = append(fieldErrs["quantity"], "A non-negative integer is required.")
		} else {
			product.Quantity = q
		}
	}
	if raw := required("selling_price"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil || p <= 0 {
			fieldErrs["selling_price"] = append(fieldErrs["selling_price"], "A positive number is required.")
		} else {
			product.SellingPrice = p
		}
	}
	if raw := required("purchased_price"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil || p <= 0 {
			fieldErrs["purchased_price"] = append(fieldErrs["purchased_price"], "A positive number is required.")
		} else {
			product.PurchasedPrice = p
		}
	}

	if !models.ValidSubCategory(product.MainCategory, product.SubCategory) &&
		product.MainCategory != "" && product.SubCategory != "" {
		fieldErrs["sub_category"] = append(fieldErrs["sub_category"],
			"Sub category does not belong to the selected main category.")
	}

	return product, fieldErrs
}
