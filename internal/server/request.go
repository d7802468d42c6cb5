package server

import (
	"net/http"
	"strings"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/models"
)

// chatBody accepts every spelling the web and widget clients have used.
type chatBody struct {
	Message string `json:"message"`
	Query   string `json:"query"`
	Input   string `json:"input"`
	State   string `json:"state"`
	Intent  string `json:"intent"`

	CountyFips      string `json:"countyFips"`
	CountyFipsSnake string `json:"county_fips"`
	County          string `json:"county"`
	Age             string `json:"age"`
	AgeGroup        string `json:"age_group"`
	Setting         string `json:"setting"`
	Metric          string `json:"metric"`
	Units           string `json:"units"`
	Period          string `json:"period"`
	CityOrZip       string `json:"cityOrZip"`
}

func (b chatBody) normalize() *models.ChatRequest {
	return &models.ChatRequest{
		Jurisdiction: strings.ToUpper(strings.TrimSpace(b.State)),
		Message:      firstNonEmpty(b.Message, b.Query, b.Input),
		Intent:       strings.TrimSpace(b.Intent),
		Hints: models.Hints{
			SubRegionCode: firstNonEmpty(b.CountyFips, b.CountyFipsSnake),
			SubRegionName: strings.TrimSpace(b.County),
			Age:           firstNonEmpty(b.Age, b.AgeGroup),
			Setting:       strings.TrimSpace(b.Setting),
			Metric:        strings.TrimSpace(b.Metric),
			Units:         firstNonEmpty(b.Units, b.Period),
			CityOrZip:     strings.TrimSpace(b.CityOrZip),
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// StatusFor maps an envelope's outcome to its HTTP status.
func StatusFor(env *models.Envelope) int {
	if env == nil {
		return http.StatusInternalServerError
	}
	if !env.Failed() {
		return http.StatusOK
	}
	switch apperrors.ErrorCode(env.Kind) {
	case apperrors.ErrCodeInputInvalid, apperrors.ErrCodeSubRegionNotFound:
		return http.StatusBadRequest
	case apperrors.ErrCodePriceNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeParseError, apperrors.ErrCodeSchemaError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
