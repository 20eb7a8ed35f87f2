package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/lakeside-labs/backoffice/backend/internal/config"
	"github.com/lakeside-labs/backoffice/backend/internal/domain"
	"github.com/lakeside-labs/backoffice/backend/internal/repository"
	"github.com/lakeside-labs/backoffice/backend/internal/storage"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client
	files       *storage.Store

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client, files *storage.Store) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,
		files:       files,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(h.metrics)

	h.Mux.Get("/healthz", h.Healthz)
	h.Mux.Method("GET", "/metrics", promhttp.Handler())

	h.Mux.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/verify", h.Verify)
			r.Post("/logout", h.Logout)
			r.With(h.requireAuth).Get("/me", h.Me)
		})

		// public site
		r.Get("/jobs", h.ListPublicJobs)
		r.Get("/jobs/{id}", h.GetPublicJob)
		r.With(h.rateLimitSubmissions).Post("/applications", h.SubmitApplication)
		r.Post("/events", h.RecordEvent)

		// admin panel
		r.Route("/admin", func(r chi.Router) {
			r.Use(h.requireAuth)

			r.With(h.requirePermission(domain.PermViewDashboard)).Get("/dashboard", h.Dashboard)

			r.Route("/jobs", func(r chi.Router) {
				r.With(h.requirePermission(domain.PermManageJobs)).Post("/", h.CreateJob)
				r.With(h.requirePermission(domain.PermManageJobs)).Get("/", h.ListJobs)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.jobCtx)
					r.With(h.requirePermission(domain.PermManageJobs)).Get("/", h.GetJob)
					r.With(h.requirePermission(domain.PermManageJobs)).Patch("/", h.UpdateJob)
					r.With(h.requirePermission(domain.PermManageJobs)).Delete("/", h.DeleteJob)
				})
			})

			r.Route("/applications", func(r chi.Router) {
				r.With(h.requirePermission(domain.PermViewApplications)).Get("/", h.ListApplications)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.applicationCtx)
					r.With(h.requirePermission(domain.PermViewApplications)).Get("/", h.GetApplication)
					r.With(h.requirePermission(domain.PermManageApplications)).Patch("/", h.UpdateApplication)
					r.With(h.requirePermission(domain.PermManageEmployees)).Post("/convert", h.ConvertApplication)
					r.With(h.requirePermission(domain.PermViewApplications)).Get("/notes", h.ListApplicationNotes)
					r.With(h.requirePermission(domain.PermManageApplications)).Post("/notes", h.CreateApplicationNote)
				})
			})
			r.Route("/application-notes/{id}", func(r chi.Router) {
				r.Use(h.requirePermission(domain.PermManageApplications))
				r.Patch("/", h.UpdateApplicationNote)
				r.Delete("/", h.DeleteApplicationNote)
			})

			r.Route("/employees", func(r chi.Router) {
				r.With(h.requirePermission(domain.PermViewEmployees)).Get("/", h.ListEmployees)
				r.With(h.requirePermission(domain.PermManageEmployees)).Post("/", h.CreateEmployee)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.employeeCtx)
					r.With(h.requirePermission(domain.PermViewEmployees)).Get("/", h.GetEmployee)
					r.With(h.requirePermission(domain.PermManageEmployees)).Patch("/", h.UpdateEmployee)
					r.With(h.requirePermission(domain.PermManageEmployees)).Delete("/", h.TerminateEmployee)
					r.With(h.requirePermission(domain.PermViewEmployees)).Get("/activity", h.EmployeeActivity)
					r.With(h.requirePermission(domain.PermViewEmployees)).Get("/notes", h.ListEmployeeNotes)
					r.With(h.requirePermission(domain.PermManageEmployees)).Post("/notes", h.CreateEmployeeNote)
				})
			})
			r.Route("/employee-notes/{id}", func(r chi.Router) {
				r.Use(h.requirePermission(domain.PermManageEmployees))
				r.Patch("/", h.UpdateEmployeeNote)
				r.Delete("/", h.DeleteEmployeeNote)
			})

			r.Route("/sales-leads", func(r chi.Router) {
				r.With(h.requirePermission(domain.PermViewSales)).Get("/", h.ListSalesLeads)
				r.With(h.requirePermission(domain.PermManageSales)).Post("/", h.CreateSalesLead)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.salesLeadCtx)
					r.With(h.requirePermission(domain.PermViewSales)).Get("/", h.GetSalesLead)
					r.With(h.requirePermission(domain.PermManageSales)).Patch("/", h.UpdateSalesLead)
					r.With(h.requirePermission(domain.PermManageSales)).Delete("/", h.DeleteSalesLead)
					r.With(h.requirePermission(domain.PermViewSales)).Get("/activity", h.SalesLeadActivity)
				})
			})

			r.Route("/emails", func(r chi.Router) {
				r.Use(h.requirePermission(domain.PermSendEmails))
				r.Get("/", h.ListSentEmails)
				r.Post("/send", h.SendEmail)
				r.Get("/inbound", h.ListReceivedEmails)
				r.Post("/inbound", h.IngestReceivedEmail)
			})
			r.Route("/email-templates", func(r chi.Router) {
				r.Use(h.requirePermission(domain.PermSendEmails))
				r.Get("/", h.ListEmailTemplates)
				r.Post("/", h.CreateEmailTemplate)
				r.Patch("/{id}", h.UpdateEmailTemplate)
				r.Delete("/{id}", h.DeleteEmailTemplate)
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(h.requirePermission(domain.PermManageUsers))
				r.Get("/", h.ListUsers)
				r.Patch("/{id}/permissions", h.UpdateUserPermissions)
				r.Delete("/{id}", h.DeleteUser)
			})
		})

		r.With(h.requireAuth, h.requirePermission(domain.PermViewApplications)).Get("/files/*", h.ServeFile)
	})
}
