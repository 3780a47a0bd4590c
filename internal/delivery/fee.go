package delivery

import (
	"math"
	"storefront/internal/config"
)

const earthRadiusKm = 6371.0

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Haversine returns the great-circle distance between two points in kilometers
func Haversine(a, b Point) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180.0 }
	dLat := rad(b.Lat - a.Lat)
	dLng := rad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// FeeSchedule prices delivery linearly by distance: a flat base fee covers
// the first FreeKm, every further kilometer adds PerKm. Amounts in dollars.
type FeeSchedule struct {
	BaseFee       float64
	PerKm         float64
	FreeKm        float64
	MaxDistanceKm float64
	SpeedKmh      float64
}

func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		BaseFee:       5.0,
		PerKm:         1.0,
		FreeKm:        2,
		MaxDistanceKm: 100,
		SpeedKmh:      40,
	}
}

func FeeScheduleFromConfig(conf config.DeliveryConfig) FeeSchedule {
	fs := FeeSchedule{
		BaseFee:       conf.BaseFee,
		PerKm:         conf.PerKm,
		FreeKm:        conf.FreeKm,
		MaxDistanceKm: conf.MaxDistanceKm,
		SpeedKmh:      conf.SpeedKmh,
	}
	if fs.SpeedKmh <= 0 {
		fs.SpeedKmh = DefaultFeeSchedule().SpeedKmh
	}
	return fs
}

func (fs FeeSchedule) Fee(km float64) float64 {
	if km <= fs.FreeKm {
		return fs.BaseFee
	}
	return fs.BaseFee + (km-fs.FreeKm)*fs.PerKm
}

func (fs FeeSchedule) Cents(km float64) int64 {
	return int64(math.Round(fs.Fee(km) * 100))
}

// Duration estimates travel minutes at the schedule's average urban speed
func (fs FeeSchedule) Duration(km float64) int {
	return int(math.Ceil(km / fs.SpeedKmh * 60))
}

func (fs FeeSchedule) InRange(km float64) bool {
	return km <= fs.MaxDistanceKm
}

func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}
