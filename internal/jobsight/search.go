package jobsight

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/jobsight/internal/jobs"
)

const (
	SearchPath = "/api/jobs/search"
)

// SearchParams is the query of the search endpoint. Every field is sent,
// including a zero page.
type SearchParams struct {
	What string `jsparam:"what" mapstructure:"what"`
	// jsparam is custom tag for reflect. Please see buildParams.
	Where     string `jsparam:"where" mapstructure:"where"`
	FullTime  bool   `jsparam:"fullTime" mapstructure:"full-time"`
	Permanent bool   `jsparam:"permanent" mapstructure:"permanent"`
	SortBy    string `jsparam:"sortBy" mapstructure:"-"`
	Page      int    `jsparam:"page" mapstructure:"page"`
	Size      int    `jsparam:"size" mapstructure:"-"`
}

// Search fetches one page of jobs. params is not modified. Records that are
// not a known job shape are skipped with a warning.
func (c *Client) Search(ctx context.Context, params *SearchParams) (*jobs.Jobs, error) {
	p := *params
	if p.Size == 0 {
		p.Size = PageSize
	}
	if p.SortBy == "" {
		p.SortBy = "date"
	}

	var body any
	if err := c.getJSON(ctx, SearchPath, buildParams(&p), &body); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Message == "" {
			se.Message = fmt.Sprintf("Search failed (%d)", se.Code)
		}
		return nil, err
	}

	items, err := unwrapList(body)
	if err != nil {
		return nil, err
	}

	result := &jobs.Jobs{Items: make([]*jobs.Job, 0, len(items))}
	for i, raw := range items {
		job, err := jobs.Parse(raw, i)
		if err != nil {
			c.logger.Warn("skipping job record", zap.Error(err))
			continue
		}
		result.Items = append(result.Items, job)
	}

	return result, nil
}

// unwrapList accepts a raw array or an object carrying it under results,
// content or data.
func unwrapList(body any) ([]any, error) {
	switch v := body.(type) {
	case []any:
		return v, nil
	case map[string]any:
		for _, key := range []string{"results", "content", "data"} {
			if items, ok := v[key].([]any); ok {
				return items, nil
			}
		}
	}

	return nil, ErrUnexpectedFormat
}

func buildParams(params any) url.Values {
	q := url.Values{}
	value := reflect.Indirect(reflect.ValueOf(params))
	for _, field := range reflect.VisibleFields(value.Type()) {
		// Our custom tag is using here.
		key := field.Tag.Get("jsparam")
		if key == "" {
			// Failover to mapstructure tag if our tag do not exist.
			key = field.Tag.Get("mapstructure")
		}
		if key == "" || key == "-" {
			continue
		}

		fv := value.FieldByIndex(field.Index)
		switch fv.Kind() {
		case reflect.Slice:
			for i := 0; i < fv.Len(); i++ {
				q.Add(key, fmt.Sprintf("%v", fv.Index(i).Interface()))
			}
		case reflect.Bool:
			q.Set(key, strconv.FormatBool(fv.Bool()))
		default:
			q.Set(key, fmt.Sprintf("%v", fv.Interface()))
		}
	}

	return q
}
