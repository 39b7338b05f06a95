package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/city-explorer/internal/explorer"
)

// categoryRequest is the location a category endpoint is asked about, as sent
// back by clients after a /location call.
type categoryRequest struct {
	ID          int64    `validate:"required,gt=0"`
	SearchQuery string   `validate:"max=256"`
	Latitude    *float64 `validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `validate:"omitempty,gte=-180,lte=180"`
}

// need names the location fields an endpoint requires on top of the ID.
type need int

const (
	needCoordinates need = iota
	needSearchQuery
	needEither
)

func (r categoryRequest) hasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

func (r categoryRequest) check(n need) error {
	switch n {
	case needCoordinates:
		if !r.hasCoordinates() {
			return errors.New("latitude and longitude are required")
		}
	case needSearchQuery:
		if strings.TrimSpace(r.SearchQuery) == "" {
			return errors.New("search_query is required")
		}
	case needEither:
		if !r.hasCoordinates() && strings.TrimSpace(r.SearchQuery) == "" {
			return errors.New("search_query or latitude and longitude are required")
		}
	}
	return nil
}

// toLocation drops a lone coordinate so providers fall back to the search text.
func (r categoryRequest) toLocation() explorer.Location {
	loc := explorer.Location{ID: r.ID, SearchQuery: r.SearchQuery}
	if r.hasCoordinates() {
		loc.Latitude = *r.Latitude
		loc.Longitude = *r.Longitude
	}
	return loc
}

// bindCategoryRequest reads the data parameter, either as a JSON object
// (data={"id":1,...}) or in bracket form (data[id]=1&data[latitude]=...).
func bindCategoryRequest(c *fiber.Ctx) (categoryRequest, error) {
	fields, err := dataFields(c)
	if err != nil {
		return categoryRequest{}, err
	}

	var req categoryRequest
	if v := fields["id"]; v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, fmt.Errorf("invalid id %q", v)
		}
		req.ID = id
	}
	req.SearchQuery = fields["search_query"]

	if req.Latitude, err = parseCoordinate(fields, "latitude"); err != nil {
		return req, err
	}
	if req.Longitude, err = parseCoordinate(fields, "longitude"); err != nil {
		return req, err
	}

	if err := validate.Struct(req); err != nil {
		return req, err
	}
	return req, nil
}

func parseCoordinate(fields map[string]string, key string) (*float64, error) {
	v := fields[key]
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, v)
	}
	return &f, nil
}

// dataFields flattens the data parameter into string values keyed by field name.
func dataFields(c *fiber.Ctx) (map[string]string, error) {
	fields := make(map[string]string)

	if raw := strings.TrimSpace(c.Query("data")); raw != "" {
		if !strings.HasPrefix(raw, "{") {
			return nil, errors.New("data must be a JSON object")
		}

		dec := json.NewDecoder(strings.NewReader(raw))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("invalid data: %w", err)
		}
		for k, v := range obj {
			switch v := v.(type) {
			case nil:
			case string:
				fields[k] = v
			case json.Number:
				fields[k] = v.String()
			default:
				fields[k] = fmt.Sprint(v)
			}
		}
		return fields, nil
	}

	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		name, ok := bytes.CutPrefix(key, []byte("data["))
		if !ok || !bytes.HasSuffix(name, []byte("]")) {
			return
		}
		fields[string(name[:len(name)-1])] = string(value)
	})
	return fields, nil
}
