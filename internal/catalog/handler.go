package catalog

import (
	"strings"

	"github.com/Ceacontabil/acai-system/internal/database"
	"github.com/Ceacontabil/acai-system/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	SizeMl    float64 `json:"size_ml"`
	SalePrice float64 `json:"sale_price"`
	Category  string  `json:"category"`
}

type CreateProductRequest struct {
	Name      string  `json:"name"`
	SizeMl    float64 `json:"size_ml"`
	SalePrice float64 `json:"sale_price"`
	Category  string  `json:"category"`
}

type UpdateProductRequest struct {
	Name      *string  `json:"name"`
	SizeMl    *float64 `json:"size_ml"`
	SalePrice *float64 `json:"sale_price"`
	Category  *string  `json:"category"`
}

func toProductResponse(p *models.AcaiProduct) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		SizeMl:    p.SizeMl,
		SalePrice: p.SalePrice,
		Category:  p.Category,
	}
}

// GET /api/products (ordem do menor para o maior copo, como no cardápio)
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.AcaiProduct
		if err := database.DB.Order("size_ml asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os produtos")
		}

		res := make([]ProductResponse, 0, len(products))
		for i := range products {
			res = append(res, toProductResponse(&products[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome é obrigatório")
		}
		if body.SizeMl <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Tamanho em ml deve ser maior que zero")
		}
		if body.SalePrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Preço de venda não pode ser negativo")
		}

		p := models.AcaiProduct{
			Name:      body.Name,
			SizeMl:    body.SizeMl,
			SalePrice: body.SalePrice,
			Category:  strings.TrimSpace(body.Category),
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o produto")
		}

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(&p))
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.AcaiProduct
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nome não pode ficar vazio")
			}
			p.Name = name
		}
		if body.SizeMl != nil {
			if *body.SizeMl <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Tamanho em ml deve ser maior que zero")
			}
			p.SizeMl = *body.SizeMl
		}
		if body.SalePrice != nil {
			if *body.SalePrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Preço de venda não pode ser negativo")
			}
			p.SalePrice = *body.SalePrice
		}
		if body.Category != nil {
			p.Category = strings.TrimSpace(*body.Category)
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o produto")
		}

		return c.JSON(toProductResponse(&p))
	}
}

// DELETE /api/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Delete(&models.AcaiProduct{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o produto")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
