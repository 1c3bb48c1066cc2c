package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"rental-manager-backend/config"
	"rental-manager-backend/internal/mw"
	"rental-manager-backend/internal/nepali"
	"rental-manager-backend/internal/notification"
	"rental-manager-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, workers *notification.WorkerPool, webpushOptions *webpush.Options, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	registerBSDateValidator()

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	r.Use(cors.New(corsConfig))

	db := s.DB()
	defaultRate := decimal.NewFromFloat(cfg.Billing.DefaultRatePerUnit)
	handler := NewHandler(s, workers, webpushOptions, defaultRate)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	// The occupancy summary is the only hot read worth memoizing.
	// Writes that move rooms or tenants invalidate it so the operator
	// always sees their own changes.
	responseCache := mw.NewResponseCache(time.Duration(cfg.Server.CacheTTLSeconds) * time.Second)
	caching := responseCache.Serve()
	invalidating := responseCache.Invalidate()

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/rooms", ListRooms(db))
		api.POST("/rooms", invalidating, handler.CreateRoom)
		api.PUT("/rooms/:id", invalidating, handler.UpdateRoom)
		api.DELETE("/rooms/:id", invalidating, handler.DeleteRoom)

		api.GET("/tenants", ListTenants(db))
		api.POST("/tenants", invalidating, handler.CreateTenant)
		api.PUT("/tenants/:id", invalidating, handler.UpdateTenant)
		api.GET("/tenants/:id/readings/latest", handler.GetLatestReading)

		api.GET("/readings", ListReadings(db))
		api.POST("/readings", handler.CreateReading)

		api.GET("/bills", ListBills(db))
		api.GET("/bills/:id", GetBill(db))
		api.POST("/bills", handler.CreateBill)
		api.PATCH("/bills/:id/paid", handler.SetBillPaid)
		api.DELETE("/bills/:id", handler.DeleteBill)

		api.GET("/payments", ListPayments(db))
		api.POST("/payments", handler.CreatePayment)

		api.GET("/occupancy", caching, GetOccupancySummary(db))
		api.POST("/occupancy/sync", invalidating, handler.SyncOccupancy)

		api.GET("/export/:entity", ExportCSV(db))

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", caching, handler.GetVAPIDPublicKey)
	}

	return r
}

// registerBSDateValidator adds the "bsdate" binding tag for Bikram
// Sambat YYYY-MM-DD strings.
func registerBSDateValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("bsdate", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := nepali.Parse(s)
		return err == nil
	})
}
