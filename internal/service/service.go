package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"pos/internal/auth"
	"pos/internal/domain"
	"pos/internal/excel"
	"pos/internal/session"
	"pos/internal/suggest"
)

var ErrNotInCart = errors.New("product is not in the cart")

// Repository is the storage the service needs. Both the in-memory and the
// Postgres repositories satisfy it.
type Repository interface {
	ReplaceProducts(ctx context.Context, owner string, products []domain.Product) error
	ListProducts(ctx context.Context, owner, search string) ([]domain.Product, error)
	GetProduct(ctx context.Context, owner, code string) (domain.Product, error)
	SaveProduct(ctx context.Context, owner, originalCode string, p domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, owner, code string) error

	CreateInvoice(ctx context.Context, invoice domain.Invoice) (domain.Invoice, error)
	GetInvoice(ctx context.Context, id string) (domain.Invoice, error)

	LogAction(ctx context.Context, username, actionType, title, details string) error
	ListActions(ctx context.Context, limit, offset int, search string) ([]domain.ActionEntry, error)
	CountActions(ctx context.Context, search string) (int, error)
}

type Options struct {
	Buyers        []string
	WhatsAppPhone string
	PublicBaseURL string
	StrictPrice   bool
}

type Service struct {
	repo      Repository
	users     *auth.Directory
	sessions  *session.Store
	suggester suggest.Suggester
	opts      Options
}

func New(repo Repository, users *auth.Directory, sessions *session.Store, suggester suggest.Suggester, opts Options) *Service {
	if suggester == nil {
		suggester = suggest.Disabled{}
	}
	return &Service{
		repo:      repo,
		users:     users,
		sessions:  sessions,
		suggester: suggester,
		opts:      opts,
	}
}

// ValidationError rejects a product form before anything is stored.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (s *Service) Login(ctx context.Context, username, password string) (*session.Session, error) {
	user, err := s.users.Authenticate(username, password)
	if err != nil {
		return nil, err
	}
	sess := s.sessions.Create(user.Username)
	s.logAction(ctx, user.Username, domain.ActionLogin, "Login", user.Username+" signed in")
	return sess, nil
}

func (s *Service) Logout(token string) bool {
	return s.sessions.Delete(token)
}

func (s *Service) Session(token string) (*session.Session, error) {
	return s.sessions.Get(token)
}

func (s *Service) Buyers() []string {
	out := make([]string, len(s.opts.Buyers))
	copy(out, s.opts.Buyers)
	return out
}

// ImportProducts runs the sheet importer and, only when the whole file is
// valid, replaces the seller's product list with the result.
func (s *Service) ImportProducts(ctx context.Context, sess *session.Session, fileName string, reader io.Reader) ([]domain.Product, error) {
	products, err := excel.ImportProducts(fileName, reader, excel.Options{StrictPrice: s.opts.StrictPrice})
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceProducts(ctx, sess.Username, products); err != nil {
		return nil, err
	}
	s.logAction(ctx, sess.Username, domain.ActionImport, "Products imported",
		fmt.Sprintf("%s: %d products", fileName, len(products)))
	return products, nil
}

func (s *Service) ListProducts(ctx context.Context, sess *session.Session, search string) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, sess.Username, search)
}

func (s *Service) GetProduct(ctx context.Context, sess *session.Session, code string) (domain.Product, error) {
	return s.repo.GetProduct(ctx, sess.Username, strings.TrimSpace(code))
}

// SaveProduct adds a product when originalCode is empty, otherwise edits
// the product currently stored under originalCode.
func (s *Service) SaveProduct(ctx context.Context, sess *session.Session, originalCode string, p domain.Product) (domain.Product, error) {
	p, err := validateProduct(p)
	if err != nil {
		return domain.Product{}, err
	}
	saved, err := s.repo.SaveProduct(ctx, sess.Username, strings.TrimSpace(originalCode), p)
	if err != nil {
		return domain.Product{}, err
	}
	title := "Product added"
	if originalCode != "" {
		title = "Product updated"
	}
	s.logAction(ctx, sess.Username, domain.ActionProductSave, title,
		fmt.Sprintf("%s %s", saved.Code, saved.Name))
	return saved, nil
}

func (s *Service) DeleteProduct(ctx context.Context, sess *session.Session, code string) error {
	code = strings.TrimSpace(code)
	if err := s.repo.DeleteProduct(ctx, sess.Username, code); err != nil {
		return err
	}
	s.logAction(ctx, sess.Username, domain.ActionProductDelete, "Product deleted", code)
	return nil
}

func (s *Service) SuggestProductName(ctx context.Context, sess *session.Session, code string) (suggest.Suggestion, error) {
	products, err := s.repo.ListProducts(ctx, sess.Username, "")
	if err != nil {
		return suggest.Suggestion{}, err
	}
	return s.suggester.Suggest(ctx, strings.TrimSpace(code), products)
}

func (s *Service) ListActions(ctx context.Context, limit, offset int, search string) ([]domain.ActionEntry, int, error) {
	items, err := s.repo.ListActions(ctx, limit, offset, search)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountActions(ctx, search)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func validateProduct(p domain.Product) (domain.Product, error) {
	p.Code = strings.TrimSpace(p.Code)
	p.Name = strings.TrimSpace(p.Name)
	switch {
	case p.Code == "":
		return domain.Product{}, &ValidationError{Field: "code", Message: "Product code is required."}
	case p.Name == "":
		return domain.Product{}, &ValidationError{Field: "name", Message: "Product name is required."}
	case math.IsNaN(p.Price) || p.Price < 0 || p.Price >= domain.MaxPrice:
		return domain.Product{}, &ValidationError{
			Field:   "price",
			Message: fmt.Sprintf("Price must be a number from 0 up to %s.", strconv.FormatFloat(domain.MaxPrice, 'f', -1, 64)),
		}
	}
	return p, nil
}

// logAction records an audit entry. A failed write is logged and never
// fails the operation that triggered it.
func (s *Service) logAction(ctx context.Context, username, actionType, title, details string) {
	if err := s.repo.LogAction(ctx, username, actionType, title, details); err != nil {
		log.Printf("log action %s: %v", actionType, err)
	}
}
