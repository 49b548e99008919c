package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	minCityLength     = 2
	minWorkTypeLength = 3
	defaultPageSize   = 3
)

var (
	ErrCityTooShort     = errors.New("❌ Название города слишком короткое. Минимум 2 символа.")
	ErrWorkTypeTooShort = errors.New("❌ Вид работ слишком короткий. Минимум 3 символа.")
)

// Page is one slice of search results. HasMore is set when a further page
// may exist.
type Page struct {
	Records []*entity.Record
	Offset  int
	HasMore bool
}

// NextOffset is the offset of the page that follows this one.
func (p *Page) NextOffset() int {
	return p.Offset + len(p.Records)
}

type UseCase struct {
	repo     Repository
	pageSize int
}

func New(repo Repository, pageSize int) *UseCase {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &UseCase{repo: repo, pageSize: pageSize}
}

// ValidateCity and ValidateWorkType return the trimmed query part or a
// user-facing error.
func ValidateCity(raw string) (string, error) {
	city := strings.TrimSpace(raw)
	if utf8.RuneCountInString(city) < minCityLength {
		return "", ErrCityTooShort
	}
	return city, nil
}

func ValidateWorkType(raw string) (string, error) {
	workType := strings.TrimSpace(raw)
	if utf8.RuneCountInString(workType) < minWorkTypeLength {
		return "", ErrWorkTypeTooShort
	}
	return workType, nil
}

// Search returns approved contractors matching the query, newest first. One
// extra row is requested to tell whether another page exists.
func (u *UseCase) Search(ctx context.Context, q entity.ContractorQuery, offset int) (*Page, error) {
	if offset < 0 {
		offset = 0
	}

	records, err := u.repo.SearchContractors(ctx, q, u.pageSize+1, offset)
	if err != nil {
		return nil, fmt.Errorf("search contractors: %w", err)
	}

	page := &Page{Offset: offset}
	if len(records) > u.pageSize {
		page.HasMore = true
		records = records[:u.pageSize]
	}
	page.Records = records

	ctxzap.Debug(ctx, "contractor search",
		zap.String("city", q.City),
		zap.String("work_type", q.WorkType),
		zap.Int("offset", offset),
		zap.Int("found", len(records)),
	)
	return page, nil
}

// Lookup resolves a deep link payload. Rejected records are treated as absent.
func (u *UseCase) Lookup(ctx context.Context, payload string) (*entity.Record, error) {
	variant, id, err := entity.ParseDeepLinkPayload(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrRecordNotFound, err)
	}

	record, err := u.repo.GetRecord(ctx, variant, id)
	if err != nil {
		return nil, err
	}
	if record.Status == entity.RecordStatusRejected {
		return nil, fmt.Errorf("%w: %s is rejected", entity.ErrRecordNotFound, id)
	}
	return record, nil
}
