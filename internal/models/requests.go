package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	defaultNearbyType   = "cafe"
	defaultNearbyRadius = 1500
	defaultNearbyMax    = 10
	maxNearbyRadius     = 50000
)

type SearchRequest struct {
	Query string  `json:"query"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

func NewSearchRequest(query, lat, lon string) (*SearchRequest, error) {
	if query == "" || lat == "" || lon == "" {
		return nil, fmt.Errorf("missing required params")
	}
	latF, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid lat")
	}
	lonF, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid lon")
	}
	return &SearchRequest{
		Query: query,
		Lat:   latF,
		Lon:   lonF,
	}, nil
}

func (r *SearchRequest) Validate() error {
	var errs []string

	r.Query = strings.TrimSpace(r.Query)
	if len(r.Query) < 2 {
		errs = append(errs, "query too short")
	}
	if err := validateCoordinates(r.Lat, r.Lon); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, ", "))
	}
	return nil
}

type NearbyRequest struct {
	Lat    float64
	Lon    float64
	Type   string
	Radius int
	Max    int
}

func NewNearbyRequest(lat, lon, typ, radius, max string) (*NearbyRequest, error) {
	if lat == "" || lon == "" {
		return nil, fmt.Errorf("lat and lon are required")
	}
	latF, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid lat")
	}
	lonF, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid lon")
	}

	r := &NearbyRequest{
		Lat:    latF,
		Lon:    lonF,
		Type:   defaultNearbyType,
		Radius: defaultNearbyRadius,
		Max:    defaultNearbyMax,
	}
	if typ != "" {
		r.Type = strings.ToLower(strings.TrimSpace(typ))
	}
	if radius != "" {
		rad, err := strconv.Atoi(radius)
		if err != nil {
			return nil, fmt.Errorf("invalid radius")
		}
		r.Radius = rad
	}
	if max != "" {
		m, err := strconv.Atoi(max)
		if err != nil {
			return nil, fmt.Errorf("invalid max")
		}
		r.Max = m
	}
	return r, nil
}

func (r *NearbyRequest) Validate() error {
	var errs []string

	if err := validateCoordinates(r.Lat, r.Lon); err != nil {
		errs = append(errs, err.Error())
	}
	if r.Type == "" {
		errs = append(errs, "invalid type")
	}
	if r.Radius <= 0 {
		errs = append(errs, "invalid radius")
	}
	if r.Radius > maxNearbyRadius {
		r.Radius = maxNearbyRadius
	}
	if r.Max <= 0 {
		errs = append(errs, "invalid max")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, ", "))
	}
	return nil
}

func validateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return errors.New("coordinates must be finite")
	}
	if lat < -90 || lat > 90 {
		return errors.New("lat out of range")
	}
	if lon < -180 || lon > 180 {
		return errors.New("lon out of range")
	}
	return nil
}
