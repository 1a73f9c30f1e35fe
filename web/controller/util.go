package controller

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/userdesk/userdesk/logger"
	"github.com/userdesk/userdesk/web/entity"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// getRemoteIp extracts the real IP address from the request headers or remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return strings.TrimSpace(ips[0])
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// jsonMsg sends a successful JSON response with a message.
func jsonMsg(c *gin.Context, statusCode int, msg string) {
	jsonMsgObj(c, statusCode, msg, nil)
}

// jsonMsgObj sends a successful JSON response with a message and an object.
func jsonMsgObj(c *gin.Context, statusCode int, msg string, obj any) {
	c.JSON(statusCode, entity.Msg{
		Success: true,
		Msg:     msg,
		Obj:     obj,
	})
}

// pureJsonError sends an error body with a custom status code.
func pureJsonError(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, entity.ErrorMsg{Error: msg})
}

// bindJSON decodes the request body into obj, rejecting unknown keys and type
// mismatches, then runs the struct validation rules.
func bindJSON(c *gin.Context, obj any) error {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.New("request body is empty")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(obj); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON: trailing data")
	}
	return binding.Validator.ValidateStruct(obj)
}

// validationError answers 422 with a readable description of err.
func validationError(c *gin.Context, err error) {
	logger.Debugf("validation failed for %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	pureJsonError(c, http.StatusUnprocessableEntity, describeValidation(err))
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := jsonFieldName(fe)
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "notnumeric":
			msgs = append(msgs, field+" must not be numeric")
		case "datetime":
			msgs = append(msgs, field+" must be a date in YYYY-MM-DD format")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
