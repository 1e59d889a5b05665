package usecase

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/totegamma/artistdb/internal/domain"
)

// TemplateInput is the editor save payload. Both fields must be present;
// a JSON null design is kept as is.
type TemplateInput struct {
	DesignJSON json.RawMessage `json:"design_json"`
	HTML       *string         `json:"html"`
}

type TemplateUsecase struct {
	repo   TemplateRepository
	signal EventPublisher
}

func NewTemplateUsecase(repo TemplateRepository, signal EventPublisher) *TemplateUsecase {
	return &TemplateUsecase{repo: repo, signal: signal}
}

func (uc *TemplateUsecase) Get(ctx context.Context) (domain.CertificateTemplate, error) {
	return uc.repo.Get(ctx)
}

// Design decodes the stored design blob; nil when absent or unparsable.
func Design(tpl domain.CertificateTemplate) json.RawMessage {
	if tpl.DesignJSON == "" || !json.Valid([]byte(tpl.DesignJSON)) {
		return nil
	}
	return json.RawMessage(tpl.DesignJSON)
}

func (uc *TemplateUsecase) Save(ctx context.Context, input TemplateInput) (domain.CertificateTemplate, error) {
	if len(input.DesignJSON) == 0 || input.HTML == nil {
		return domain.CertificateTemplate{}, domain.ValidationError{Message: "Missing design_json/html"}
	}

	tpl, err := uc.repo.Save(ctx, string(input.DesignJSON), *input.HTML)
	if err != nil {
		return domain.CertificateTemplate{}, err
	}

	err = uc.signal.Publish(ctx, domain.Event{Type: domain.EventTemplate, At: tpl.UpdatedAt})
	if err != nil {
		slog.WarnContext(
			ctx, "failed to publish template event",
			slog.String("error", err.Error()),
			slog.String("module", "template"),
		)
	}
	return tpl, nil
}
