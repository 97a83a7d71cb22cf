// Package roster ships the built-in Mountain View service area.
package roster

import "github.com/kilianp07/washroute/core/model"

func at(lng, lat float64) model.Coordinates { return model.Coordinates{Lng: lng, Lat: lat} }

// Default returns a fresh copy of the built-in roster.
func Default() model.Roster {
	return model.Roster{
		Laundries: []model.Laundry{
			{ID: "laundry_01", Name: "Suds Yer Duds", Coordinates: at(-122.0782, 37.3931), Tags: []string{"Coin-op", "High Capacity"}, Status: "Partnered"},
			{ID: "laundry_02", Name: "Mountain View Laundry", Coordinates: at(-122.0635, 37.3794), Tags: []string{"Card-system", "24/7"}, Status: "Active"},
			{ID: "laundry_03", Name: "The Laundry Basket", Coordinates: at(-122.1141, 37.4012), Tags: []string{"App-pay", "Eco-friendly"}, Status: "Maintenance"},
			{ID: "laundry_04", Name: "E-Z Wash Laundry", Coordinates: at(-122.0912, 37.4055), Tags: []string{"Coin-op", "Wuff-and-Fold"}, Status: "Partnered"},
			{ID: "laundry_05", Name: "Laundromat @ El Camino", Coordinates: at(-122.1023, 37.3888), Tags: []string{"Touch-pay", "Lounge Area"}, Status: "Active"},
			{ID: "laundry_06", Name: "Showers & Laundry Center", Coordinates: at(-122.0831, 37.412), Tags: []string{"Premium Service", "Sylphold Express"}, Status: "Active"},
		},
		Houses: []model.HouseClient{
			{ID: "house_01", Coordinates: at(-122.0815, 37.3862)},
			{ID: "house_02", Coordinates: at(-122.075, 37.3828)},
			{ID: "house_03", Coordinates: at(-122.0897, 37.3925)},
			{ID: "house_04", Coordinates: at(-122.097, 37.3839)},
			{ID: "house_05", Coordinates: at(-122.0863, 37.3787)},
		},
		Helpers: []model.Helper{
			{ID: "helper_01", Coordinates: at(-122.0729, 37.3895)},
			{ID: "helper_02", Coordinates: at(-122.0938, 37.3973)},
			{ID: "helper_03", Coordinates: at(-122.0824, 37.3739)},
			{ID: "helper_04", Coordinates: at(-122.0785, 37.3821)},
			{ID: "helper_05", Coordinates: at(-122.0872, 37.3847)},
			{ID: "helper_06", Coordinates: at(-122.0701, 37.3952)},
			{ID: "helper_07", Coordinates: at(-122.0984, 37.3929)},
			{ID: "helper_08", Coordinates: at(-122.0903, 37.3788)},
			{ID: "helper_09", Coordinates: at(-122.0817, 37.3995)},
			{ID: "helper_10", Coordinates: at(-122.0754, 37.387)},
			{ID: "helper_11", Coordinates: at(-122.0859, 37.3908)},
			{ID: "helper_12", Coordinates: at(-122.0921, 37.4023)},
		},
		Vehicles: []model.Vehicle{
			{ID: "vehicle_01", Coordinates: at(-122.079, 37.3925)},
			{ID: "vehicle_02", Coordinates: at(-122.0675, 37.3802)},
			{ID: "vehicle_03", Coordinates: at(-122.1105, 37.3998)},
			{ID: "vehicle_04", Coordinates: at(-122.089, 37.407)},
			{ID: "vehicle_05", Coordinates: at(-122.095, 37.389)},
			{ID: "vehicle_06", Coordinates: at(-122.074, 37.395)},
			{ID: "vehicle_07", Coordinates: at(-122.0825, 37.4002)},
			{ID: "vehicle_08", Coordinates: at(-122.088, 37.3835)},
		},
	}
}
