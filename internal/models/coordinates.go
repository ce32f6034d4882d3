package models

import (
	"database/sql/driver"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coordinates is a WGS84 point. It maps to PostGIS geography(Point,4326).
type Coordinates struct {
	Latitude  float64 `json:"lat" validate:"min=-90,max=90"`
	Longitude float64 `json:"lng" validate:"min=-180,max=180"`
}

// DefaultCoordinates is used when the viewer's position is unknown (BKC, Mumbai).
var DefaultCoordinates = Coordinates{Latitude: 19.0760, Longitude: 72.8777}

func (c Coordinates) IsZero() bool {
	return c.Latitude == 0 && c.Longitude == 0
}

func (c Coordinates) Valid() bool {
	return !math.IsNaN(c.Latitude) && !math.IsNaN(c.Longitude) &&
		c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Scan reads a point coming back from Postgres as WKT, EWKT, hex EWKB or "lat,lng".
func (c *Coordinates) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case []byte:
		raw = string(v)
	case string:
		raw = v
	case nil:
		*c = Coordinates{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Coordinates", src)
	}
	raw = strings.TrimSpace(raw)

	var lon, lat float64
	if _, err := fmt.Sscanf(raw, "POINT(%f %f)", &lon, &lat); err == nil {
		*c = Coordinates{Latitude: lat, Longitude: lon}
		return nil
	}
	if _, err := fmt.Sscanf(raw, "SRID=4326;POINT(%f %f)", &lon, &lat); err == nil {
		*c = Coordinates{Latitude: lat, Longitude: lon}
		return nil
	}

	if len(raw) >= 42 && isHexString(raw) {
		b, err := hex.DecodeString(raw)
		if err != nil {
			return fmt.Errorf("failed to decode EWKB hex: %w", err)
		}
		return c.parseEWKB(b)
	}

	if parts := strings.Split(raw, ","); len(parts) == 2 {
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errLat == nil && errLng == nil {
			*c = Coordinates{Latitude: lat, Longitude: lng}
			return nil
		}
	}

	return fmt.Errorf("failed to parse coordinates from: %q", raw)
}

func isHexString(s string) bool {
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')) {
			return false
		}
	}
	return true
}

// parseEWKB decodes a Point with SRID flag:
// byte order (1) | type (4) | srid (4) | x (8) | y (8).
func (c *Coordinates) parseEWKB(data []byte) error {
	if len(data) < 25 {
		return fmt.Errorf("EWKB data too short: %d bytes", len(data))
	}

	var order binary.ByteOrder = binary.BigEndian
	if data[0] == 1 {
		order = binary.LittleEndian
	}

	if typ := order.Uint32(data[1:5]); typ&0x20000000 == 0 {
		return fmt.Errorf("EWKB type does not have SRID flag: %x", typ)
	}
	if srid := order.Uint32(data[5:9]); srid != 4326 {
		return fmt.Errorf("unexpected SRID: %d (expected 4326)", srid)
	}

	c.Longitude = math.Float64frombits(order.Uint64(data[9:17]))
	c.Latitude = math.Float64frombits(order.Uint64(data[17:25]))
	return nil
}

// Value writes the point as EWKT.
func (c Coordinates) Value() (driver.Value, error) {
	return fmt.Sprintf("SRID=4326;POINT(%f %f)", c.Longitude, c.Latitude), nil
}
