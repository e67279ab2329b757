package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"plantstore/internal/domain/model"
	repo "plantstore/internal/repository"
)

// 公開一覧の1ページの件数
const plantsPerPage = 10

var allowedImageTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/jpg":  {},
	"image/webp": {},
}

// 画像の置き場（MinIOなど）
type ImageStore interface {
	Upload(ctx context.Context, r io.Reader, size int64, contentType string) (url string, key string, err error)
	Delete(ctx context.Context, key string) error
}

// アップロードされた画像
type ImageUpload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}

type PlantUsecase struct {
	plants repo.PlantRepository
	tx     repo.TransactionManager
	images ImageStore
	log    *slog.Logger
}

// DI
func NewPlantUsecase(plants repo.PlantRepository, tx repo.TransactionManager, images ImageStore, log *slog.Logger) *PlantUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &PlantUsecase{plants: plants, tx: tx, images: images, log: log}
}

type ListPlantsInput struct {
	Search   string
	Category string
	MinPrice *int64
	MaxPrice *int64
	InStock  *bool
	Sort     string
	Page     int
}

type PlantListOutput struct {
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	Pages   int           `json:"pages"`
	Results int           `json:"results"`
	Plants  []model.Plant `json:"plants"`
}

func (u *PlantUsecase) List(ctx context.Context, in ListPlantsInput) (PlantListOutput, error) {
	q := repo.PlantListQuery{
		Page:     in.Page,
		Limit:    plantsPerPage,
		Search:   in.Search,
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		InStock:  in.InStock,
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if c := strings.TrimSpace(in.Category); c != "" {
		cat := model.Category(c)
		if !cat.Valid() {
			return PlantListOutput{}, NewHTTPError(http.StatusBadRequest, "Invalid category")
		}
		q.Category = &cat
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return PlantListOutput{}, NewHTTPError(http.StatusBadRequest, "minPrice must not exceed maxPrice")
	}
	switch in.Sort {
	case "", "priceAsc", "priceDesc", "newest", "oldest":
		q.Sort = in.Sort
	default:
		return PlantListOutput{}, NewHTTPError(http.StatusBadRequest, "Invalid sort")
	}

	plants, total, err := u.plants.List(ctx, q)
	if err != nil {
		return PlantListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return PlantListOutput{
		Total:   total,
		Page:    q.Page,
		Pages:   int((total + plantsPerPage - 1) / plantsPerPage),
		Results: len(plants),
		Plants:  plants,
	}, nil
}

func (u *PlantUsecase) Get(ctx context.Context, id int64) (model.Plant, error) {
	if id <= 0 {
		return model.Plant{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := u.plants.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Plant{}, NewHTTPError(http.StatusNotFound, "Plant not found")
	}
	if err != nil {
		return model.Plant{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

type CreatePlantInput struct {
	Name        string
	Price       int64
	Categories  []string
	InStock     *bool
	Description string
	Image       *ImageUpload
}

func (u *PlantUsecase) Create(ctx context.Context, actorID int64, in CreatePlantInput) (model.Plant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price == 0 || len(in.Categories) == 0 {
		return model.Plant{}, NewHTTPError(http.StatusBadRequest, "Please provide name, price and categories")
	}
	if utf8.RuneCountInString(name) > model.PlantNameMaxLen {
		return model.Plant{}, NewHTTPError(http.StatusBadRequest, "Plant name must be at most 100 characters")
	}
	if in.Price < 1 {
		return model.Plant{}, NewHTTPError(http.StatusBadRequest, "Price must be positive")
	}
	cats, err := parseCategories(in.Categories)
	if err != nil {
		return model.Plant{}, err
	}
	desc := strings.TrimSpace(in.Description)
	if utf8.RuneCountInString(desc) > model.PlantDescriptionMaxLen {
		return model.Plant{}, NewHTTPError(http.StatusBadRequest, "Description must be at most 500 characters")
	}
	if in.Image == nil {
		return model.Plant{}, NewHTTPError(http.StatusBadRequest, "Plant image is required")
	}

	url, key, err := u.upload(ctx, in.Image)
	if err != nil {
		return model.Plant{}, err
	}

	p := model.Plant{
		Name:        name,
		Price:       in.Price,
		Categories:  cats,
		InStock:     true,
		Description: desc,
		Image:       url,
		ImageKey:    key,
	}
	if in.InStock != nil {
		p.InStock = *in.InStock
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		created, err := r.Plants().Create(ctx, p)
		if errors.Is(err, repo.ErrDuplicate) {
			return NewHTTPError(http.StatusConflict, "Plant with this name already exists")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		p = created
		return u.audit(ctx, r, actorID, model.AuditActionCreatePlant, p.ID, nil, p)
	})
	if err != nil {
		//保存できなかった画像は消す
		u.deleteImage(ctx, key)
		return model.Plant{}, err
	}

	u.log.InfoContext(ctx, "plant created", "plant_id", p.ID, "actor_id", actorID)
	return p, nil
}

// nilの項目は変更しない。nameは変更不可なので入力に無い。
type UpdatePlantInput struct {
	Price       *int64
	Categories  []string
	InStock     *bool
	Description *string
	Image       *ImageUpload
}

func (u *PlantUsecase) Update(ctx context.Context, actorID int64, id int64, in UpdatePlantInput) (model.Plant, error) {
	before, err := u.Get(ctx, id)
	if err != nil {
		return model.Plant{}, err
	}

	after := before
	if in.Price != nil {
		if *in.Price < 1 {
			return model.Plant{}, NewHTTPError(http.StatusBadRequest, "Price must be positive")
		}
		after.Price = *in.Price
	}
	if in.Categories != nil {
		cats, err := parseCategories(in.Categories)
		if err != nil {
			return model.Plant{}, err
		}
		after.Categories = cats
	}
	if in.InStock != nil {
		after.InStock = *in.InStock
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if utf8.RuneCountInString(desc) > model.PlantDescriptionMaxLen {
			return model.Plant{}, NewHTTPError(http.StatusBadRequest, "Description must be at most 500 characters")
		}
		after.Description = desc
	}

	newKey := ""
	if in.Image != nil {
		url, key, err := u.upload(ctx, in.Image)
		if err != nil {
			return model.Plant{}, err
		}
		after.Image, after.ImageKey = url, key
		newKey = key
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		err := r.Plants().Update(ctx, after)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Plant not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return u.audit(ctx, r, actorID, model.AuditActionUpdatePlant, id, before, after)
	})
	if err != nil {
		u.deleteImage(ctx, newKey)
		return model.Plant{}, err
	}

	//差し替えた古い画像は消す（失敗してもログだけ）
	if newKey != "" {
		u.deleteImage(ctx, before.ImageKey)
	}

	after.UpdatedAt = time.Now()
	return after, nil
}

func (u *PlantUsecase) UpdateStock(ctx context.Context, actorID int64, id int64, inStock bool) (model.Plant, error) {
	before, err := u.Get(ctx, id)
	if err != nil {
		return model.Plant{}, err
	}

	after := before
	after.InStock = inStock

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		err := r.Plants().UpdateStock(ctx, id, inStock)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Plant not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return u.audit(ctx, r, actorID, model.AuditActionUpdateStock, id,
			map[string]bool{"inStock": before.InStock}, map[string]bool{"inStock": inStock})
	})
	if err != nil {
		return model.Plant{}, err
	}
	return after, nil
}

// Delete はレコードを消す。画像の削除は失敗してもエラーにしない。
func (u *PlantUsecase) Delete(ctx context.Context, actorID int64, id int64) error {
	before, err := u.Get(ctx, id)
	if err != nil {
		return err
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		err := r.Plants().Delete(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Plant not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return u.audit(ctx, r, actorID, model.AuditActionDeletePlant, id, before, nil)
	})
	if err != nil {
		return err
	}

	u.deleteImage(ctx, before.ImageKey)
	return nil
}

func (u *PlantUsecase) upload(ctx context.Context, img *ImageUpload) (string, string, error) {
	ct := strings.ToLower(strings.TrimSpace(strings.Split(img.ContentType, ";")[0]))
	if _, ok := allowedImageTypes[ct]; !ok {
		return "", "", NewHTTPError(http.StatusBadRequest, "Image must be png, jpeg or webp")
	}

	url, key, err := u.images.Upload(ctx, img.Reader, img.Size, ct)
	if err != nil {
		u.log.ErrorContext(ctx, "image upload failed", "error", err)
		return "", "", NewHTTPError(http.StatusInternalServerError, "Failed to upload image")
	}
	return url, key, nil
}

func (u *PlantUsecase) deleteImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := u.images.Delete(ctx, key); err != nil {
		u.log.WarnContext(ctx, "image delete failed", "key", key, "error", err)
	}
}

func (u *PlantUsecase) audit(ctx context.Context, r repo.TxRepos, actorID int64, action model.AuditAction, plantID int64, before, after any) error {
	entry := model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: model.AuditResourcePlant,
		ResourceID:   plantID,
		BeforeJSON:   marshalOrEmpty(before),
		AfterJSON:    marshalOrEmpty(after),
		CreatedAt:    time.Now(),
	}
	if err := r.AuditLogs().Create(ctx, entry); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func marshalOrEmpty(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// カンマ区切りと複数指定の両方を受ける。重複は除く。
func parseCategories(raw []string) ([]model.Category, error) {
	seen := map[model.Category]struct{}{}
	var out []model.Category
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			c := model.Category(strings.TrimSpace(part))
			if c == "" {
				continue
			}
			if !c.Valid() {
				return nil, NewHTTPError(http.StatusBadRequest, "Invalid category: "+string(c))
			}
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "Please provide at least one category")
	}
	return out, nil
}
