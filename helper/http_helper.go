package helper

import (
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	"tau-journal/models"
)

// HTTPHelper writes the platform's fixed HTTP contracts: error responses
// are {"detail": "<short human string>"} with a machine-stable status code,
// never stack traces or internal identifiers.
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

// NewHTTPHelper hooks into gin's binding validator and registers the
// English translations used for field-level error messages.
func NewHTTPHelper() (*HTTPHelper, error) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil, fmt.Errorf("unexpected binding validator engine")
	}
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, found := uni.GetTranslator("en")
	if !found {
		return nil, fmt.Errorf("english translator not registered")
	}
	if err := entranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, err
	}
	return &HTTPHelper{Validate: v, Translator: trans}, nil
}

func (u *HTTPHelper) SendDetail(c *gin.Context, status int, detail string) {
	c.JSON(status, gin.H{"detail": detail})
}

func (u *HTTPHelper) SendBadRequest(c *gin.Context, detail string) {
	u.SendDetail(c, http.StatusBadRequest, detail)
}

func (u *HTTPHelper) SendUnauthorized(c *gin.Context, detail string) {
	u.SendDetail(c, http.StatusUnauthorized, detail)
}

func (u *HTTPHelper) SendForbidden(c *gin.Context, detail string) {
	u.SendDetail(c, http.StatusForbidden, detail)
}

func (u *HTTPHelper) SendNotFound(c *gin.Context, detail string) {
	u.SendDetail(c, http.StatusNotFound, detail)
}

func (u *HTTPHelper) SendBadGateway(c *gin.Context, detail string) {
	u.SendDetail(c, http.StatusBadGateway, detail)
}

func (u *HTTPHelper) SendGatewayTimeout(c *gin.Context, detail string) {
	u.SendDetail(c, http.StatusGatewayTimeout, detail)
}

// SendValidationError translates field validation failures into a
// per-field error map under the detail key.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	errorResponse := map[string][]string{}
	errorTranslation := validationErrors.Translate(u.Translator)
	for _, err := range validationErrors {
		errKey := Underscore(err.StructField())
		errorResponse[errKey] = append(errorResponse[errKey], errorTranslation[err.Namespace()])
	}
	c.JSON(http.StatusBadRequest, gin.H{"detail": errorResponse})
}

// NewPagination computes the envelope metadata for a paginated listing.
func NewPagination(totalCount int64, page, pageSize int) models.Pagination {
	totalPages := 0
	if totalCount > 0 {
		totalPages = int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	}
	return models.Pagination{
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Underscore converts a struct field name into its snake_case JSON key.
// Runs of capitals stay together: TitleKZ -> title_kz.
func Underscore(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 && !unicode.IsUpper(runes[i-1]) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
