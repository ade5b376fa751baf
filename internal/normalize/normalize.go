// Package normalize приводит тело запроса произвольной кодировки
// (JSON объект, multipart или urlencoded форма) к единой карте полей
// и содержит мягкие приведения типов для значений формы.
package normalize

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/tgshop-backend/internal/pkg/apperror"
)

const maxMultipartMemory = 32 << 20

// ParseRequest разбирает тело запроса в карту поле → значение.
// Выживают только ключи из белого списка allowed, остальные молча
// отбрасываются. Неизвестная кодировка или JSON не-объект дают
// UNSUPPORTED_MEDIA.
func ParseRequest(r *http.Request, allowed []string) (map[string]interface{}, error) {
	ctype := strings.ToLower(r.Header.Get("Content-Type"))

	var data map[string]interface{}

	switch {
	case strings.Contains(ctype, "application/json"):
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		var raw interface{}
		if err := dec.Decode(&raw); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeUnsupportedMedia, "JSON payload must be an object")
		}
		obj, ok := raw.(map[string]interface{})
		if !ok {
			return nil, apperror.New(apperror.ErrCodeUnsupportedMedia, "JSON payload must be an object")
		}
		data = obj
	case strings.Contains(ctype, "multipart/form-data"):
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeUnsupportedMedia, "некорректная multipart форма")
		}
		data = formToMap(r.MultipartForm.Value)
	case strings.Contains(ctype, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeUnsupportedMedia, "некорректная форма")
		}
		data = formToMap(r.PostForm)
	default:
		return nil, apperror.New(apperror.ErrCodeUnsupportedMedia, "Unsupported Media Type")
	}

	out := make(map[string]interface{}, len(allowed))
	for _, key := range allowed {
		if v, ok := data[key]; ok {
			out[key] = v
		}
	}
	return out, nil
}

func formToMap(form map[string][]string) map[string]interface{} {
	data := make(map[string]interface{}, len(form))
	for k, vals := range form {
		if len(vals) > 0 {
			data[k] = vals[0]
		}
	}
	return data
}

// AsString приводит значение формы к строке. nil даёт пустую строку.
func AsString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		b, err := json.Marshal(s)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// ToBool трактует значение как флаг: истина только для
// "1", "true", "on", "yes" (без учёта регистра). Отсутствие → false.
func ToBool(v interface{}) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	if v == nil {
		return false
	}
	s := strings.ToLower(strings.TrimSpace(AsString(v)))
	switch s {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// ToInt парсит целое. Пустая строка или nil дают nil; мусор тоже
// даёт nil — различить можно по исходному значению у вызывающего.
func ToInt(v interface{}) *int64 {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(AsString(v))
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// ParseMoney парсит денежное значение в точный десятичный тип.
// Запятая считается десятичным разделителем, пустое значение — нулём.
// В отличие от остальных приведений мусор здесь возвращает ошибку:
// молча обнулять цену слишком опасно.
func ParseMoney(v interface{}) (decimal.Decimal, error) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, nil
	case json.Number:
		return decimal.NewFromString(n.String())
	case float64:
		return decimal.NewFromFloat(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	}
	s := strings.ReplaceAll(strings.TrimSpace(AsString(v)), ",", ".")
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// StringList приводит значение к списку непустых строк.
// Допускаются готовый список и JSON строка со списком; всё остальное,
// включая невалидный JSON, трактуется как отсутствие значения.
func StringList(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return cleanStrings(t)
	case []interface{}:
		items := make([]string, 0, len(t))
		for _, it := range t {
			items = append(items, AsString(it))
		}
		return cleanStrings(items)
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		var parsed []interface{}
		if err := json.Unmarshal([]byte(t), &parsed); err != nil {
			return nil
		}
		items := make([]string, 0, len(parsed))
		for _, it := range parsed {
			items = append(items, AsString(it))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// AnyMap приводит значение к карте произвольных атрибутов.
// Допускаются готовая карта и JSON строка с объектом; мусор даёт nil.
func AnyMap(v interface{}) map[string]interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		if len(t) == 0 {
			return nil
		}
		return t
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(t), &parsed); err != nil {
			return nil
		}
		return parsed
	default:
		return nil
	}
}
