package api

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ErrInvalidID はパスパラメーターのIDが正の整数でないことを示します。
var ErrInvalidID = errors.New("invalid id")

// PathID はパスパラメーター name を正の整数IDとして解釈します。
func PathID(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, ErrInvalidID
	}
	return uint(v), nil
}

// QueryID は任意のクエリパラメーターをIDとして解釈します。未指定なら nil です。
func QueryID(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, ErrInvalidID
	}
	id := uint(v)
	return &id, nil
}
