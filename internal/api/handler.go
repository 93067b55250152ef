package api

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/syndic/internal/i18n"
	"github.com/terraincognita07/syndic/internal/services"
)

const (
	defaultAuthTokenTTL = 12 * time.Hour
	ownerAuthTokenTTL   = 30 * 24 * time.Hour
	loginAttemptLimit   = 8
	loginAttemptWindow  = 15 * time.Minute
)

type HandlerConfig struct {
	Reconciler   *services.Reconciler
	Warnings     *services.WarningLog
	I18n         *i18n.Manager
	SecretKey    string
	CookieSecure bool
	Location     *time.Location
	Logger       logrus.FieldLogger
}

type Handler struct {
	reconciler   *services.Reconciler
	authService  *services.AuthService
	reports      *services.ReportService
	warnings     *services.WarningLog
	i18n         *i18n.Manager
	secretKey    []byte
	cookieSecure bool
	location     *time.Location
	loginLimiter *attemptLimiter
	validate     *validator.Validate
	logger       logrus.FieldLogger
	now          func() time.Time
}

func NewHandler(config HandlerConfig) (*Handler, error) {
	if config.Reconciler == nil {
		return nil, errors.New("reconciler is required")
	}
	if config.I18n == nil {
		return nil, errors.New("i18n manager is required")
	}
	if len(config.SecretKey) == 0 {
		return nil, errors.New("secret key is required")
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	if config.Warnings == nil {
		config.Warnings = services.NewWarningLog(0, config.Logger)
	}

	return &Handler{
		reconciler:   config.Reconciler,
		authService:  services.NewAuthService(config.Reconciler),
		reports:      services.NewReportService(),
		warnings:     config.Warnings,
		i18n:         config.I18n,
		secretKey:    []byte(config.SecretKey),
		cookieSecure: config.CookieSecure,
		location:     config.Location,
		loginLimiter: newAttemptLimiter(),
		validate:     validator.New(),
		logger:       config.Logger,
		now:          time.Now,
	}, nil
}

// currentPeriod is the zero-based month and the year in the building's timezone.
func (handler *Handler) currentPeriod() (int, int) {
	now := handler.now().In(handler.location)
	return int(now.Month()) - 1, now.Year()
}
