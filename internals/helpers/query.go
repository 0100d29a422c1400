package helper

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// QueryValues returns every value of key, accepting both ?k=1&k=2 and ?k=1,2.
func QueryValues(c *fiber.Ctx, key string) []string {
	out := make([]string, 0)
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, p := range strings.Split(string(raw), ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func QueryInt64List(c *fiber.Ctx, key string) ([]int64, error) {
	vals := QueryValues(c, key)
	out := make([]int64, 0, len(vals))
	for _, v := range vals {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%s: %q is not a positive integer", key, v)
		}
		out = append(out, n)
	}
	return out, nil
}

func QueryInt64(c *fiber.Ctx, key string) (*int64, error) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("%s: %q is not a positive integer", key, v)
	}
	return &n, nil
}

// QueryDate parses a YYYY-MM-DD value; the first non-empty key wins.
func QueryDate(c *fiber.Ctx, keys ...string) (*time.Time, error) {
	for _, key := range keys {
		v := strings.TrimSpace(c.Query(key))
		if v == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, fmt.Errorf("%s must be YYYY-MM-DD", key)
		}
		return &t, nil
	}
	return nil, nil
}

func ParseInt64Param(c *fiber.Ctx, name string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(c.Params(name)), 10, 64)
	if err != nil || n <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, name+" must be a positive integer")
	}
	return n, nil
}
