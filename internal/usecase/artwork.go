package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/totegamma/artistdb/internal/domain"
)

// ArtworkInput carries the editable fields of an artwork.
type ArtworkInput struct {
	Title       string `json:"title" form:"title"`
	Year        string `json:"year" form:"year"`
	Series      string `json:"series" form:"series"`
	Medium      string `json:"medium" form:"medium"`
	Dimensions  string `json:"dimensions" form:"dimensions"`
	Description string `json:"description" form:"description"`
	EditionType string `json:"editionType" form:"edition_type"`
	EditionInfo string `json:"editionInfo" form:"edition_info"`
	Status      string `json:"status" form:"status"`
	ForSale     bool   `json:"forSale" form:"for_sale"`
	Price       string `json:"price" form:"price"`
	Notes       string `json:"notes" form:"notes"`
	ColorCode   string `json:"colorcode" form:"colorcode"`
}

// Upload is an image file received from a client.
type Upload struct {
	Filename string
	Body     io.Reader
}

// ArtworkDetail is an artwork together with where it currently is.
type ArtworkDetail struct {
	domain.Artwork
	Location *domain.LocationLog `json:"location"`
}

type BulkUpdateInput struct {
	ArtworkIDs []int64 `json:"artwork_ids"`
	Field      string  `json:"field"`
	Value      any     `json:"value"`
}

type BulkUpdateResult struct {
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
	Message string `json:"message"`
}

// bulkColumns maps the bulk-editable fields to their columns.
var bulkColumns = map[string]string{
	"status":    "status",
	"for_sale":  "for_sale",
	"price":     "price",
	"notes":     "notes",
	"series":    "series",
	"year":      "year",
	"colorcode": "colorcode",
}

type ArtworkUsecase struct {
	repo      ArtworkRepository
	locations LocationRepository
	assets    AssetStore
	allowed   []string
	now       func() time.Time
}

func NewArtworkUsecase(
	repo ArtworkRepository,
	locations LocationRepository,
	assets AssetStore,
	allowedExtensions []string,
) *ArtworkUsecase {
	return &ArtworkUsecase{
		repo:      repo,
		locations: locations,
		assets:    assets,
		allowed:   allowedExtensions,
		now:       time.Now,
	}
}

func (uc *ArtworkUsecase) Create(ctx context.Context, input ArtworkInput, image *Upload) (domain.Artwork, error) {
	artwork, err := applyInput(domain.Artwork{}, input)
	if err != nil {
		return domain.Artwork{}, err
	}

	if image != nil {
		name, err := uc.storeUpload(ctx, *image)
		if err != nil {
			return domain.Artwork{}, err
		}
		artwork.ImageFilename = name
	}

	created, err := uc.repo.Create(ctx, artwork)
	if err != nil {
		if artwork.ImageFilename != "" {
			uc.removeAsset(ctx, 0, artwork.ImageFilename)
		}
		return domain.Artwork{}, err
	}
	return created, nil
}

func (uc *ArtworkUsecase) Get(ctx context.Context, id int64) (ArtworkDetail, error) {
	artwork, err := uc.repo.Get(ctx, id)
	if err != nil {
		return ArtworkDetail{}, err
	}

	detail := ArtworkDetail{Artwork: artwork}
	latest, err := uc.locations.Current(ctx, id)
	if err == nil {
		detail.Location = &latest
	} else if !errors.Is(err, domain.ErrNotFound) {
		return ArtworkDetail{}, err
	}
	return detail, nil
}

// List filters by status; unknown filter values list everything.
func (uc *ArtworkUsecase) List(ctx context.Context, status string) ([]domain.Artwork, error) {
	filter, ok := domain.ParseStatus(status)
	if !ok {
		filter = ""
	}
	return uc.repo.List(ctx, filter)
}

func (uc *ArtworkUsecase) Update(ctx context.Context, id int64, input ArtworkInput, image *Upload) (domain.Artwork, error) {
	current, err := uc.repo.Get(ctx, id)
	if err != nil {
		return domain.Artwork{}, err
	}

	updated, err := applyInput(current, input)
	if err != nil {
		return domain.Artwork{}, err
	}

	previousImage := current.ImageFilename
	if image != nil {
		name, err := uc.storeUpload(ctx, *image)
		if err != nil {
			return domain.Artwork{}, err
		}
		updated.ImageFilename = name
	}

	if err := uc.repo.Update(ctx, updated); err != nil {
		if image != nil {
			uc.removeAsset(ctx, id, updated.ImageFilename)
		}
		return domain.Artwork{}, err
	}

	if image != nil && previousImage != "" {
		uc.removeAsset(ctx, id, previousImage)
	}
	return updated, nil
}

// SetImage replaces only the image of an artwork.
func (uc *ArtworkUsecase) SetImage(ctx context.Context, id int64, image Upload) (domain.Artwork, error) {
	current, err := uc.repo.Get(ctx, id)
	if err != nil {
		return domain.Artwork{}, err
	}

	name, err := uc.storeUpload(ctx, image)
	if err != nil {
		return domain.Artwork{}, err
	}

	previous := current.ImageFilename
	current.ImageFilename = name
	if err := uc.repo.Update(ctx, current); err != nil {
		uc.removeAsset(ctx, id, name)
		return domain.Artwork{}, err
	}
	if previous != "" {
		uc.removeAsset(ctx, id, previous)
	}
	return current, nil
}

// Delete removes the artwork with its history. The image goes last and a
// failure there is only logged.
func (uc *ArtworkUsecase) Delete(ctx context.Context, id int64) error {
	artwork, err := uc.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	if artwork.ImageFilename != "" {
		uc.removeAsset(ctx, id, artwork.ImageFilename)
	}
	return nil
}

func (uc *ArtworkUsecase) BulkUpdate(ctx context.Context, input BulkUpdateInput) (BulkUpdateResult, error) {
	if len(input.ArtworkIDs) == 0 || input.Field == "" || input.Value == nil {
		return BulkUpdateResult{}, domain.ValidationError{Message: "Missing artwork_ids, field, or value"}
	}

	column, ok := bulkColumns[input.Field]
	if !ok {
		return BulkUpdateResult{}, domain.ValidationError{
			Field:   "field",
			Message: fmt.Sprintf("Field '%s' is not allowed for bulk update", input.Field),
		}
	}

	value, err := bulkValue(input.Field, input.Value)
	if err != nil {
		return BulkUpdateResult{}, err
	}

	artworks, err := uc.repo.FindByIDs(ctx, input.ArtworkIDs)
	if err != nil {
		return BulkUpdateResult{}, err
	}

	// sold artworks only accept a colour code change
	var editable []int64
	skipped := 0
	for _, a := range artworks {
		if a.Status == domain.StatusSold && input.Field != "colorcode" {
			skipped++
			continue
		}
		editable = append(editable, a.ID)
	}

	if err := uc.repo.UpdateColumn(ctx, editable, column, value); err != nil {
		return BulkUpdateResult{}, errors.Wrap(err, "bulk update")
	}

	message := fmt.Sprintf("Updated %d artwork(s)", len(editable))
	if skipped > 0 {
		message += fmt.Sprintf(". %d sold artwork(s) were skipped (cannot edit sold items).", skipped)
	}

	return BulkUpdateResult{
		Updated: len(editable),
		Skipped: skipped,
		Message: message,
	}, nil
}

func bulkValue(field string, raw any) (any, error) {
	switch field {
	case "for_sale":
		return truthy(raw), nil
	case "status":
		status, ok := domain.ParseStatus(fmt.Sprint(raw))
		if !ok {
			return nil, domain.ValidationError{Field: "value", Message: "invalid status"}
		}
		return string(status), nil
	default:
		switch v := raw.(type) {
		case string:
			return v, nil
		case float64, bool, int, int64:
			return fmt.Sprint(v), nil
		default:
			return nil, domain.ValidationError{Field: "value", Message: "value must be a string"}
		}
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return slices.Contains([]string{"true", "True", "yes", "1"}, t)
	case float64:
		return t == 1
	default:
		return false
	}
}

func applyInput(a domain.Artwork, in ArtworkInput) (domain.Artwork, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Artwork{}, domain.ValidationError{Field: "title", Message: "title is required"}
	}
	medium := strings.TrimSpace(in.Medium)
	if medium == "" {
		return domain.Artwork{}, domain.ValidationError{Field: "medium", Message: "medium is required"}
	}

	status := domain.StatusWorking
	if strings.TrimSpace(in.Status) != "" {
		parsed, ok := domain.ParseStatus(in.Status)
		if !ok {
			return domain.Artwork{}, domain.ValidationError{Field: "status", Message: "status must be working, for_sale or sold"}
		}
		status = parsed
	}

	a.Title = title
	a.Medium = medium
	a.Year = strings.TrimSpace(in.Year)
	a.Series = strings.TrimSpace(in.Series)
	a.Dimensions = strings.TrimSpace(in.Dimensions)
	a.Description = in.Description
	a.EditionType = strings.TrimSpace(in.EditionType)
	a.EditionInfo = strings.TrimSpace(in.EditionInfo)
	a.Status = status
	a.ForSale = in.ForSale
	a.Price = strings.TrimSpace(in.Price)
	a.Notes = in.Notes
	a.ColorCode = strings.TrimSpace(in.ColorCode)
	return a, nil
}

func (uc *ArtworkUsecase) storeUpload(ctx context.Context, image Upload) (string, error) {
	if !uc.allowedExt(image.Filename) {
		return "", domain.ValidationError{Field: "image", Message: "Only JPG/JPEG/PNG allowed"}
	}
	name := UploadName(uc.now(), uuid.NewString(), image.Filename)
	if err := uc.assets.Save(ctx, name, image.Body); err != nil {
		return "", errors.Wrap(err, "store upload")
	}
	return name, nil
}

func (uc *ArtworkUsecase) allowedExt(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	return ext != "" && slices.Contains(uc.allowed, ext)
}

func (uc *ArtworkUsecase) removeAsset(ctx context.Context, artworkID int64, name string) {
	if err := uc.assets.Delete(ctx, name); err != nil {
		slog.ErrorContext(
			ctx, "failed to delete image file",
			slog.Int64("artworkID", artworkID),
			slog.String("file", name),
			slog.String("error", err.Error()),
			slog.String("module", "artwork"),
		)
	}
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// UploadName builds "<yyyymmddHHMMSS>_<8 hex>_<sanitized name>" so two uploads
// with the same client name never collide.
func UploadName(now time.Time, id string, original string) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = unsafeChars.ReplaceAllString(strings.Join(strings.Fields(stem), "_"), "")
	stem = strings.TrimLeft(stem, "._")
	if stem == "" {
		stem = "image"
	}

	short := strings.ReplaceAll(id, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s_%s_%s%s", now.UTC().Format("20060102150405"), short, stem, ext)
}
