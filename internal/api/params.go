package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"org-directory/internal/directory"
)

const (
	maxTextLen = 100
	maxHouse   = 100000
)

func badParam(format string, args ...any) error {
	return &paramError{msg: fmt.Sprintf(format, args...)}
}

// textParam：必填文本，去除首尾空白后长度 1..100
func textParam(q url.Values, name string) (string, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return "", badParam("%s is required", name)
	}
	if n := utf8.RuneCountInString(v); n > maxTextLen {
		return "", badParam("%s must be at most %d characters", name, maxTextLen)
	}
	return v, nil
}

// optTextParam：可选文本；给出参数但内容为空视为非法
func optTextParam(q url.Values, name string) (*string, error) {
	if !q.Has(name) {
		return nil, nil
	}
	v, err := textParam(q, name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// intParam：整数参数，缺省返回 nil；[lo, hi] 为闭区间，hi <= 0 表示无上限
func intParam(q url.Values, name string, lo, hi int) (*int, error) {
	s := strings.TrimSpace(q.Get(name))
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, badParam("%s must be an integer", name)
	}
	if n < lo || (hi > 0 && n > hi) {
		if hi > 0 {
			return nil, badParam("%s must be within [%d, %d]", name, lo, hi)
		}
		return nil, badParam("%s must be >= %d", name, lo)
	}
	return &n, nil
}

func floatParam(q url.Values, name string) (float64, error) {
	s := strings.TrimSpace(q.Get(name))
	if s == "" {
		return 0, badParam("%s is required", name)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, badParam("%s must be a number", name)
	}
	return f, nil
}

// pageParams：limit/offset；负值交给引擎判定
func pageParams(q url.Values) (directory.Page, error) {
	var p directory.Page
	for _, f := range []struct {
		name string
		dst  **int
	}{{"limit", &p.Limit}, {"offset", &p.Offset}} {
		s := strings.TrimSpace(q.Get(f.name))
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return p, badParam("%s must be an integer", f.name)
		}
		*f.dst = &n
	}
	return p, nil
}

// addressKeyParams：结构化地址；house 1..100000，building >= 1
func addressKeyParams(q url.Values) (directory.AddressKey, error) {
	var k directory.AddressKey
	var err error
	if k.Country, err = textParam(q, "country"); err != nil {
		return k, err
	}
	if k.City, err = textParam(q, "city"); err != nil {
		return k, err
	}
	if k.Street, err = textParam(q, "street"); err != nil {
		return k, err
	}
	house, err := intParam(q, "house", 1, maxHouse)
	if err != nil {
		return k, err
	}
	if house == nil {
		return k, badParam("house is required")
	}
	k.House = *house
	if k.Building, err = intParam(q, "building", 1, 0); err != nil {
		return k, err
	}
	return k, nil
}

func geoParams(q url.Values) (directory.GeoQuery, error) {
	var g directory.GeoQuery
	var err error
	if g.Lat, err = floatParam(q, "lat"); err != nil {
		return g, err
	}
	if g.Lon, err = floatParam(q, "lon"); err != nil {
		return g, err
	}
	if g.RadiusMeters, err = floatParam(q, "radius"); err != nil {
		return g, err
	}
	return g, nil
}
