package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"contentplanner/internal/config"
	"contentplanner/internal/database"
	"contentplanner/internal/service"
)

type Handlers struct {
	AuthService  service.AuthService
	PostService  service.PostService
	StatsService service.StatsService
	DB           database.MethodsDB
	Cfg          *config.Config
	Validate     *validator.Validate
	Log          logrus.FieldLogger
}

func NewHandlers(db database.MethodsDB, services *service.Service, cfg *config.Config, log logrus.FieldLogger) *Handlers {
	return &Handlers{
		AuthService:  services.Auth,
		PostService:  services.Post,
		StatsService: services.Stats,
		DB:           db,
		Cfg:          cfg,
		Validate:     newValidator(),
		Log:          log,
	}
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage turns the first failed rule into a readable message.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "Invalid request body"
	}

	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// maxJSONBody - upper bound for JSON request bodies.
const maxJSONBody = 1 << 20

// decodeJSON - decodes the request body into v, reading at most maxJSONBody bytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	return json.NewDecoder(r.Body).Decode(v)
}

// writeBodyError - reports a body that could not be decoded.
func writeBodyError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		WriteError(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	WriteError(w, "Invalid request body", http.StatusBadRequest)
}
