package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ttpr0/go-seareach/isochrone"
	"github.com/ttpr0/go-seareach/metrics"
	"github.com/ttpr0/go-seareach/routing"
	. "github.com/ttpr0/go-seareach/util"
	"golang.org/x/exp/slog"
)

const REQUEST_ID_HEADER = "X-Request-ID"

type Result struct {
	result any
	status int
}

func OK[T any](value T) Result {
	return Result{
		result: value,
		status: http.StatusOK,
	}
}

func BadRequest[T any](value T) Result {
	return Result{
		result: value,
		status: http.StatusBadRequest,
	}
}

func NotFound[T any](value T) Result {
	return Result{
		result: value,
		status: http.StatusNotFound,
	}
}

// Maps err to an error result: invalid input is 400, timeouts 504, everything else 500.
func Error(err error) Result {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, isochrone.ErrInvalidParameter), errors.Is(err, routing.ErrDegenerateRoute):
		status = http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	return Result{
		result: err.Error(),
		status: status,
	}
}

func WriteResult(c *gin.Context, path string, res Result) {
	if res.status != http.StatusOK {
		slog.Error(fmt.Sprintf("failed %v %v: %v", c.Request.Method, path, res.result), "request_id", c.GetString("request_id"))
		c.JSON(res.status, NewErrorResponse(path, res.result, c.GetString("request_id")))
	} else {
		c.JSON(res.status, res.result)
	}
}

// Registers a POST handler decoding the json body into F.
func MapPost[F any](app gin.IRoutes, path string, handler func(context.Context, F) Result) {
	app.POST(path, func(c *gin.Context) {
		var body F
		if err := c.ShouldBindJSON(&body); err != nil {
			WriteResult(c, c.FullPath(), BadRequest("invalid request body: "+err.Error()))
			return
		}
		WriteResult(c, c.FullPath(), handler(c.Request.Context(), body))
	})
}

// Registers a GET handler filling F from the query parameters named by its json tags.
func MapGet[F any](app gin.IRoutes, path string, handler func(context.Context, F) Result) {
	var val F
	typ := reflect.TypeOf(val)
	num_field := typ.NumField()
	fields := NewList[Tuple[int, string]](num_field)
	for i := 0; i < num_field; i++ {
		tag := typ.Field(i).Tag.Get("json")
		if tag == "" {
			continue
		}
		fields.Add(MakeTuple(i, tag))
	}
	app.GET(path, func(c *gin.Context) {
		t := reflect.New(typ).Elem()
		for _, field := range fields {
			value := c.Query(field.B)
			if value == "" {
				value = c.Param(field.B)
			}
			if value == "" {
				continue
			}
			if err := _SetQueryField(t.Field(field.A), value); err != nil {
				WriteResult(c, c.FullPath(), BadRequest(fmt.Sprintf("invalid parameter %v: %v", field.B, err)))
				return
			}
		}
		WriteResult(c, c.FullPath(), handler(c.Request.Context(), t.Interface().(F)))
	})
}

func _SetQueryField(f reflect.Value, value string) error {
	switch f.Kind() {
	case reflect.Bool:
		num, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		f.SetBool(num)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		num, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		f.SetInt(num)
	case reflect.Float32, reflect.Float64:
		num, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		f.SetFloat(num)
	case reflect.String:
		f.SetString(value)
	}
	return nil
}

// Runs compute with a deadline of timeout, returns a 504 result if it does not finish in time.
//
// The computation is not interrupted, its result is discarded after the deadline.
func RunWithTimeout[T any](ctx context.Context, timeout time.Duration, compute func() (T, error)) Result {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	type output struct {
		value T
		err   error
	}
	done := make(chan output, 1)
	go func() {
		value, err := compute()
		done <- output{value, err}
	}()
	select {
	case out := <-done:
		if out.err != nil {
			return Error(out.err)
		}
		return OK(out.value)
	case <-ctx.Done():
		return Error(fmt.Errorf("computation aborted: %w", ctx.Err()))
	}
}

//**********************************************************
// middleware
//**********************************************************

// Tags each request with an id, taken from the X-Request-ID header or freshly generated.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(REQUEST_ID_HEADER)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(REQUEST_ID_HEADER, id)
		c.Next()
	}
}

// Logs each request and records its duration and status.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		slog.Info(fmt.Sprintf("%v %v %v in %v", c.Request.Method, c.Request.URL.Path, status, duration), "request_id", c.GetString("request_id"))

		metrics.HttpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration.Seconds())
		metrics.HttpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
	}
}
