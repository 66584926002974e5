package catalog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/apikit/handler"
	"github.com/dmitrymomot/apikit/pkg/binder"
	"github.com/dmitrymomot/apikit/pkg/deferred"
	"github.com/dmitrymomot/apikit/pkg/httperr"
	"github.com/dmitrymomot/apikit/pkg/metrics"
	"github.com/dmitrymomot/apikit/pkg/schema"
	"github.com/dmitrymomot/apikit/pkg/shaper"
	"github.com/dmitrymomot/apikit/pkg/validator"
)

// Service serves the catalog routes.
type Service struct {
	validator   *validator.Validator
	router      *httperr.Router
	models      models
	notifier    Notifier
	log         *slog.Logger
	metrics     *metrics.Metrics
	taskOpts    []deferred.Option
	bcryptCost  int
	maxFileSize int64
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTaskOptions configures the deferred queue of every request, e.g.
// deferred.WithTracker for graceful shutdown.
func WithTaskOptions(opts ...deferred.Option) Option {
	return func(s *Service) {
		s.taskOpts = append(s.taskOpts, opts...)
	}
}

// WithBcryptCost sets the password hashing cost. Default bcrypt.DefaultCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

// WithMaxFileSize limits the size of a single upload. Default
// binder.DefaultMaxFileSize.
func WithMaxFileSize(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxFileSize = n
		}
	}
}

// New resolves the catalog models from reg and builds the error router.
// reg is usually the result of NewRegistry.
func New(reg *schema.Registry, notifier Notifier, opts ...Option) (*Service, error) {
	if notifier == nil {
		return nil, ErrNoNotifier
	}
	m, err := resolveModels(reg)
	if err != nil {
		return nil, err
	}

	s := &Service{
		validator:   validator.New(reg),
		models:      m,
		notifier:    notifier,
		log:         slog.Default(),
		bcryptCost:  bcrypt.DefaultCost,
		maxFileSize: binder.DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router = httperr.NewRouter()
	if err := httperr.Register(s.router, http.StatusTeapot, func(_ *http.Request, e *UnicornError) any {
		return map[string]string{
			"message": "Oops! " + e.Name + " did something. There goes a rainbow...",
		}
	}); err != nil {
		return nil, err
	}
	s.router.Seal()

	return s, nil
}

// Handler returns the catalog routes mounted on a chi router.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.wrap("root", s.root))

	r.Route("/items", func(r chi.Router) {
		r.Get("/", s.wrap("read_items", s.readItems,
			handler.WithParams(
				binder.Query("q", schema.Optional(schema.ListOf(schema.String())), schema.Default(nil)),
				binder.Query("r", schema.Optional(schema.String()), schema.Default(nil), schema.MinLength(3)),
				binder.Cookie("ads_id", schema.Optional(schema.String()), schema.Default(nil)),
				binder.Header("user_agent", schema.Optional(schema.String()), schema.Default(nil)),
			),
		))
		r.Post("/", s.wrap("create_item", s.createItem,
			handler.WithParams(binder.Body("item", schema.Ref("Item"))),
			handler.WithResponse(shaper.Single(s.models.item, shaper.None())),
			handler.WithStatus(http.StatusCreated),
		))
		r.Post("/with-tax", s.wrap("create_item_with_tax", s.createItemWithTax,
			handler.WithParams(binder.Body("item", schema.Ref("Item"))),
		))
		r.Get("/{item_id}", s.wrap("read_item", s.readItem,
			handler.WithParams(
				binder.Path("item_id", schema.Int(), schema.Ge(1), schema.Title("The ID of the item to get")),
				binder.Query("q", schema.Optional(schema.String()), schema.Default(nil), schema.Alias("item-query")),
				binder.Query("short", schema.Bool(), schema.Default(false)),
			),
		))
		r.Put("/{item_id}", s.wrap("update_item", s.updateItem,
			handler.WithParams(
				binder.Path("item_id", schema.Int()),
				binder.Body("item", schema.Ref("Item")),
			),
		))
		r.Put("/{item_id}/owner", s.wrap("update_item_owner", s.updateItemOwner,
			handler.WithParams(
				binder.Path("item_id", schema.Int()),
				binder.Body("item", schema.Ref("Item")),
				binder.Body("user", schema.Ref("User")),
			),
		))
		r.Get("/{item_id}/name", s.wrap("read_item_name", s.readItemFixture,
			handler.WithParams(binder.Path("item_id", schema.String())),
			handler.WithResponse(shaper.Single(s.models.item, shaper.Include("name", "description"))),
		))
		r.Get("/{item_id}/public", s.wrap("read_item_public_data", s.readItemFixture,
			handler.WithParams(binder.Path("item_id", schema.String())),
			handler.WithResponse(shaper.Single(s.models.item, shaper.Exclude("tax"))),
		))
	})

	r.Get("/items2/", s.wrap("read_items2", s.readItems2,
		handler.WithResponse(shaper.List(s.models.item2, shaper.None())),
	))
	r.Get("/items2/{item_id}", s.wrap("read_item2", s.readItemFixture,
		handler.WithParams(binder.Path("item_id", schema.String())),
		handler.WithResponse(shaper.Single(s.models.item, shaper.ExcludeUnset())),
	))
	r.Get("/items3/{item_id}", s.wrap("read_item3", s.readItem3,
		handler.WithParams(binder.Path("item_id", schema.String())),
		handler.WithResponse(shaper.Union(shaper.None(), s.models.planeItem, s.models.carItem)),
	))

	r.Get("/models/{model_name}", s.wrap("get_model", s.getModel,
		handler.WithParams(binder.Path("model_name", schema.Enum(ModelNames...))),
	))

	r.Post("/user/", s.wrap("create_user", s.createUser,
		handler.WithParams(binder.Body("user", schema.Ref("UserIn"))),
		handler.WithResponse(shaper.Single(s.models.userOut, shaper.None())),
	))
	r.Post("/login/", s.wrap("login", s.login,
		handler.WithParams(
			binder.Form("username", schema.String()),
			binder.Form("password", schema.String()),
		),
	))
	r.Post("/files/", s.wrap("create_file", s.createFile,
		handler.WithParams(binder.File("file", binder.FileBytes, schema.Default(nil))),
	))
	r.Post("/uploadfile/", s.wrap("create_upload_file", s.createUploadFile,
		handler.WithParams(binder.File("file", binder.FileHandle, schema.Default(nil))),
	))

	r.Get("/unicorns/{name}", s.wrap("read_unicorn", s.readUnicorn,
		handler.WithParams(binder.Path("name", schema.String())),
	))

	r.Post("/send-notification/{email}", s.wrap("send_notification", s.sendNotification,
		handler.WithParams(
			binder.Path("email", schema.String()),
			binder.Query("q", schema.Optional(schema.String()), schema.Default(nil)),
		),
		handler.WithDecorators(s.queryNotification),
	))

	return r
}

// wrap applies the options shared by every catalog route.
func (s *Service) wrap(name string, h handler.HandlerFunc, opts ...handler.Option) http.HandlerFunc {
	base := []handler.Option{
		handler.WithName(name),
		handler.WithValidator(s.validator),
		handler.WithRouter(s.router),
		handler.WithLogger(s.log),
		handler.WithMetrics(s.metrics),
		handler.WithPathExtractor(chi.URLParam),
		handler.WithTaskOptions(s.taskOpts...),
		handler.WithBinderOptions(binder.WithMaxFileSize(s.maxFileSize)),
	}
	return handler.Wrap(h, append(base, opts...)...)
}
