// Package utilities contain utility code that use across the package
package utilities

import (
	"errors"
	"reflect"
	"strconv"

	"github.com/Adham-Aroubite/hr-back/internal/model"
	"github.com/gin-gonic/gin"
)

// RequesterKey is the gin context key holding the authenticated model.Requester
const RequesterKey = "requester"

// ErrorResponse type for swagger docs
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse type for swagger docs
type MessageResponse struct {
	Message string `json:"message"`
}

// ExtractRequester extracts the authenticated caller from Gin context.
// It does not abort the request, callers decide how to respond.
func ExtractRequester(c *gin.Context) (model.Requester, error) {
	r, exists := c.Get(RequesterKey)
	if !exists {
		return model.Requester{}, errors.New("Requester information not provided")
	}

	requester, ok := r.(model.Requester)
	if !ok {
		return model.Requester{}, errors.New("Failed to assert type")
	}
	return requester, nil
}

// ParseID reads a positive integer path parameter
func ParseID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("Invalid id")
	}
	return uint(id), nil
}

// ParseQueryID reads a positive integer query parameter
func ParseQueryID(c *gin.Context, key string) (uint, error) {
	id, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("Invalid " + key)
	}
	return uint(id), nil
}

// MergeNonEmpty help merge struct with non-empty field
func MergeNonEmpty(dst, src interface{}) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src).Elem()

	for i := 0; i < sv.NumField(); i++ {
		sf := sv.Field(i)
		if !sf.IsZero() {
			df := dv.FieldByName(sv.Type().Field(i).Name)
			if df.IsValid() && df.CanSet() {
				df.Set(sf)
			}
		}
	}
}
