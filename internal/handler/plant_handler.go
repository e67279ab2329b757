package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"plantstore/internal/usecase"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
)

type PlantHandler struct {
	uc *usecase.PlantUsecase
}

// DI
func NewPlantHandler(uc *usecase.PlantUsecase) *PlantHandler {
	return &PlantHandler{uc: uc}
}

// 文字列（カンマ区切り）と配列の両方を受ける
type categoriesField []string

func (f *categoriesField) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*f = []string{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*f = many
	return nil
}

type updatePlantRequest struct {
	Price       *int64          `json:"price"`
	Categories  categoriesField `json:"categories"`
	InStock     *bool           `json:"inStock"`
	Description *string         `json:"description"`
}

type updateStockRequest struct {
	InStock *bool `json:"inStock"`
}

func (h *PlantHandler) RegisterRoutes(api *echo.Group, gate Gate) {
	g := api.Group("/plant")

	g.GET("/getPlants", h.list)
	g.GET("/getPlant/:id", h.detail)

	g.POST("/addPlant", h.create, gate.Admin()...)
	g.POST("/updatePlant/:id", h.update, gate.Admin()...)
	g.PUT("/updatePlantStock/:id", h.updateStock, gate.Admin()...)
	g.DELETE("/deletePlant/:id", h.delete, gate.Admin()...)
}

func (h *PlantHandler) list(c echo.Context) error {
	minPrice, err := optionalInt64(c, "minPrice")
	if err != nil {
		return badRequest(c, "invalid minPrice")
	}
	maxPrice, err := optionalInt64(c, "maxPrice")
	if err != nil {
		return badRequest(c, "invalid maxPrice")
	}
	inStock, err := optionalBool(c, "inStock")
	if err != nil {
		return badRequest(c, "invalid inStock")
	}
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			return badRequest(c, "invalid page")
		}
		page = p
	}

	out, err := h.uc.List(c.Request().Context(), usecase.ListPlantsInput{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		InStock:  inStock,
		Sort:     c.QueryParam("sort"),
		Page:     page,
	})
	if err != nil {
		return writeError(c, err)
	}

	return success(c, http.StatusOK, echo.Map{
		"total":   out.Total,
		"page":    out.Page,
		"pages":   out.Pages,
		"results": out.Results,
		"plants":  out.Plants,
	})
}

func (h *PlantHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	p, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"plant": p})
}

func (h *PlantHandler) create(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "Plant image is required")
	}

	var price int64
	if v := strings.TrimSpace(c.FormValue("price")); v != "" {
		price, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badRequest(c, "invalid price")
		}
	}
	var inStock *bool
	if v := c.FormValue("inStock"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return badRequest(c, "invalid inStock")
		}
		inStock = &b
	}

	img, closeImg, err := readImage(c)
	if err != nil {
		return badRequest(c, "invalid image")
	}
	defer closeImg()

	p, err := h.uc.Create(c.Request().Context(), adminID, usecase.CreatePlantInput{
		Name:        c.FormValue("name"),
		Price:       price,
		Categories:  form.Value["categories"],
		InStock:     inStock,
		Description: c.FormValue("description"),
		Image:       img,
	})
	if err != nil {
		return writeError(c, err)
	}

	return success(c, http.StatusCreated, echo.Map{
		"message": "Plant added successfully",
		"plant":   p,
	})
}

// JSONでもmultipartでも受ける。nameは無視する。
func (h *PlantHandler) update(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	var in usecase.UpdatePlantInput
	closeImg := func() {}

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return badRequest(c, "invalid form")
		}
		if v := strings.TrimSpace(c.FormValue("price")); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return badRequest(c, "invalid price")
			}
			in.Price = &n
		}
		if cats, ok := form.Value["categories"]; ok {
			in.Categories = cats
		}
		if v := c.FormValue("inStock"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return badRequest(c, "invalid inStock")
			}
			in.InStock = &b
		}
		if vs, ok := form.Value["description"]; ok && len(vs) > 0 {
			in.Description = &vs[0]
		}

		img, closer, err := readImage(c)
		if err != nil {
			return badRequest(c, "invalid image")
		}
		in.Image, closeImg = img, closer
	} else {
		var req updatePlantRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid body")
		}
		in.Price = req.Price
		if req.Categories != nil {
			in.Categories = []string(req.Categories)
		}
		in.InStock = req.InStock
		in.Description = req.Description
	}
	defer closeImg()

	p, err := h.uc.Update(c.Request().Context(), adminID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{
		"message": "Plant updated successfully",
		"plant":   p,
	})
}

func (h *PlantHandler) updateStock(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	var req updateStockRequest
	if err := c.Bind(&req); err != nil || req.InStock == nil {
		return badRequest(c, "Please provide inStock")
	}

	p, err := h.uc.UpdateStock(c.Request().Context(), adminID, id, *req.InStock)
	if err != nil {
		return writeError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{
		"message": "Plant stock updated successfully",
		"plant":   p,
	})
}

func (h *PlantHandler) delete(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	if err := h.uc.Delete(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"message": "Plant deleted successfully"})
}

// readImage は "image" を開いて中身から形式を判定する。無ければnil。
func readImage(c echo.Context) (*usecase.ImageUpload, func(), error) {
	noop := func() {}

	fh, err := c.FormFile("image")
	if err != nil {
		return nil, noop, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return nil, noop, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, noop, err
	}

	return &usecase.ImageUpload{
		Reader:      f,
		Size:        fh.Size,
		ContentType: mt.String(),
	}, func() { f.Close() }, nil
}
