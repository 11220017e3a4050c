package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vitrinelabs/vitrine-backend/api/controllers"
	"github.com/vitrinelabs/vitrine-backend/api/middleware"
	"github.com/vitrinelabs/vitrine-backend/internal/auth"
	"github.com/vitrinelabs/vitrine-backend/internal/catalog"
	"github.com/vitrinelabs/vitrine-backend/internal/orders"
	"github.com/vitrinelabs/vitrine-backend/internal/products"
	"github.com/vitrinelabs/vitrine-backend/internal/profile"
	"github.com/vitrinelabs/vitrine-backend/internal/stores"
	"github.com/vitrinelabs/vitrine-backend/internal/uploads"
	"github.com/vitrinelabs/vitrine-backend/pkg/config"
	"github.com/vitrinelabs/vitrine-backend/pkg/identity"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
	"github.com/vitrinelabs/vitrine-backend/pkg/metrics"
	"github.com/vitrinelabs/vitrine-backend/pkg/redis"
)

// Services bundles the domain services the router dispatches to.
type Services struct {
	Auth     auth.Service
	Profile  profile.Service
	Catalog  catalog.Service
	Stores   stores.Service
	Products products.Service
	Orders   orders.Service
	Uploads  uploads.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	verifier identity.Verifier,
	httpMetrics *metrics.HTTPMetrics,
	readiness map[string]controllers.Pinger,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.RequireJSON(logg))

		r.With(middleware.AuthRateLimit(signupPolicy, redisClient, logg)).
			Post("/customer/signup", controllers.CustomerSignUp(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/customer/login", controllers.CustomerLogin(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/merchant/login", controllers.MerchantLogin(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(verifier, logg))
			r.Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
			r.Get("/me", controllers.AuthProfile(svcs.Auth, logg))
			r.Route("/profile", func(r chi.Router) {
				r.Get("/", controllers.GetProfile(svcs.Profile, logg))
				r.Put("/", controllers.UpdateProfile(svcs.Profile, logg))
				r.Patch("/", controllers.UpdateProfile(svcs.Profile, logg))
			})
		})
	})

	r.Route("/api/v1/stores", func(r chi.Router) {
		r.Get("/", controllers.ListStores(svcs.Catalog, logg))
		r.Get("/{storeId}", controllers.GetStore(svcs.Catalog, logg))
		r.Get("/{storeId}/products", controllers.ListStoreProducts(svcs.Catalog, logg))
	})
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(svcs.Catalog, logg))
		r.Get("/{productId}", controllers.GetProduct(svcs.Catalog, logg))
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(
			middleware.Auth(verifier, logg),
			middleware.RequireCustomer(logg),
			middleware.RequireJSON(logg),
		)
		r.Get("/", controllers.ListOrders(svcs.Orders, logg))
		r.Post("/", controllers.CreateOrder(svcs.Orders, logg))
		r.Get("/{orderId}", controllers.GetOrder(svcs.Orders, logg))
		r.Post("/{orderId}/confirm-delivery", controllers.ConfirmDelivery(svcs.Orders, logg))
	})

	r.Route("/api/v1/merchant/stores/{storeId}", func(r chi.Router) {
		r.Use(
			middleware.Auth(verifier, logg),
			middleware.RequireMerchant(logg),
		)

		// Multipart endpoints skip the JSON content-type gate.
		r.Post("/upload/banner", controllers.UploadStoreBanner(svcs.Uploads, logg))
		r.Post("/products/{productId}/upload", controllers.UploadProductImage(svcs.Uploads, logg))
		r.Post("/orders/{orderId}/upload/proof", controllers.UploadDeliveryProof(svcs.Uploads, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireJSON(logg))

			r.Get("/", controllers.MerchantGetStore(svcs.Stores, logg))
			r.Patch("/", controllers.MerchantUpdateStore(svcs.Stores, logg))
			r.Patch("/toggle-status", controllers.MerchantToggleStore(svcs.Stores, logg))
			r.Get("/status", controllers.StoreStatus(svcs.Stores, logg))

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.MerchantCreateProduct(svcs.Products, logg))
				r.Patch("/{productId}", controllers.MerchantUpdateProduct(svcs.Products, logg))
				r.Delete("/{productId}", controllers.MerchantDeleteProduct(svcs.Products, logg))
				r.Post("/{productId}/activate", controllers.MerchantActivateProduct(svcs.Products, logg))
				r.Post("/{productId}/deactivate", controllers.MerchantDeactivateProduct(svcs.Products, logg))
				r.Route("/{productId}/customizations", func(r chi.Router) {
					r.Post("/", controllers.MerchantAddCustomization(svcs.Products, logg))
					r.Patch("/{customizationId}", controllers.MerchantUpdateCustomization(svcs.Products, logg))
					r.Delete("/{customizationId}", controllers.MerchantRemoveCustomization(svcs.Products, logg))
				})
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.MerchantListStoreOrders(svcs.Orders, logg))
				r.Get("/{orderId}", controllers.MerchantGetStoreOrder(svcs.Orders, logg))
				r.Put("/{orderId}", controllers.MerchantUpdateOrderStatus(svcs.Orders, logg))
				r.Post("/{orderId}/confirm", controllers.MerchantConfirmOrder(svcs.Orders, logg))
				r.Post("/{orderId}/reject", controllers.MerchantRejectOrder(svcs.Orders, logg))
			})
		})
	})

	return r
}
