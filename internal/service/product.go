package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"tradedesk/internal/collection"
	"tradedesk/internal/logging"
	"tradedesk/internal/model"
)

// ProductsKey is the store key of the product list.
const ProductsKey = "products"

// ProductInput is the raw product form.
type ProductInput struct {
	Name        string  `json:"name" form:"name" validate:"required"`
	SKU         string  `json:"sku" form:"sku" validate:"required"`
	Qty         int     `json:"qty" form:"qty" validate:"gte=0"`
	Price       float64 `json:"price" form:"price" validate:"finite,gt=0"`
	Description string  `json:"desc" form:"desc"`
}

// ProductService defines the use cases for the product catalog.
type ProductService interface {
	Add(ctx context.Context, in ProductInput) (*model.Product, error)

	// Remove deletes every product with the id and reports how many were dropped.
	// An unknown id is not an error.
	Remove(ctx context.Context, id int64) int

	Edit(ctx context.Context, id int64) error
	List(ctx context.Context) []model.Product
}

type productService struct {
	products *collection.Manager[model.Product]
	validate *validator.Validate
	now      func() time.Time
	log      *zap.Logger

	mu     sync.Mutex
	lastID int64
}

// NewProductService constructs a ProductService over products. The id sequence
// continues from the largest persisted id.
func NewProductService(products *collection.Manager[model.Product], now func() time.Time, log *zap.Logger) ProductService {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logging.Nop()
	}

	s := &productService{
		products: products,
		validate: newValidator(),
		now:      now,
		log:      log,
	}
	for _, p := range products.Snapshot() {
		if p.ID > s.lastID {
			s.lastID = p.ID
		}
	}
	return s
}

// newValidator registers "finite", which rejects NaN and ±Inf; those values cannot be
// encoded as JSON and would stop the list from being saved.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsInf(f, 0) && !math.IsNaN(f)
	})
	return v
}

func (s *productService) Add(ctx context.Context, in ProductInput) (*model.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	in.Description = strings.TrimSpace(in.Description)

	if err := s.validate.StructCtx(ctx, in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			logging.From(ctx, s.log).Debug("product_rejected", zap.String("field", verrs[0].Field()), zap.String("rule", verrs[0].Tag()))
			return nil, ErrInvalidProduct
		}
		return nil, err
	}

	now := s.now()
	p := model.Product{
		ID:          s.nextID(now),
		Name:        in.Name,
		SKU:         in.SKU,
		Qty:         in.Qty,
		Price:       in.Price,
		Description: in.Description,
		AddedAt:     model.Timestamp(now),
	}
	s.products.Add(ctx, p)

	logging.From(ctx, s.log).Info("product_added", zap.Int64("id", p.ID), zap.String("sku", p.SKU))
	return &p, nil
}

func (s *productService) Remove(ctx context.Context, id int64) int {
	n := s.products.Remove(ctx, func(p model.Product) bool { return p.ID == id })
	logging.From(ctx, s.log).Info("product_removed", zap.Int64("id", id), zap.Int("removed", n))
	return n
}

func (s *productService) Edit(context.Context, int64) error {
	return ErrEditUnsupported
}

func (s *productService) List(context.Context) []model.Product {
	return s.products.Snapshot()
}

// nextID returns a millisecond timestamp, bumped past the previous id when the clock
// has not advanced.
func (s *productService) nextID(now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
