package model

// Coordinates is a (longitude, latitude) pair expressed in degrees.
type Coordinates struct {
	Lng float64 `json:"lng" yaml:"lng"`
	Lat float64 `json:"lat" yaml:"lat"`
}

// Pair returns the coordinates in [lng, lat] order.
func (c Coordinates) Pair() [2]float64 { return [2]float64{c.Lng, c.Lat} }

// Helper is a mobile gig worker performing pickup, fold and delivery.
type Helper struct {
	ID          string      `json:"id" yaml:"id"`
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`
}

// HouseClient is a customer household.
type HouseClient struct {
	ID          string      `json:"id" yaml:"id"`
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`
}

// Laundry is a partner laundromat. Name, Tags and Status are display only.
type Laundry struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`
	Tags        []string    `json:"tags,omitempty" yaml:"tags"`
	Status      string      `json:"status,omitempty" yaml:"status"`
}

// Vehicle carries cargo between houses and laundries.
type Vehicle struct {
	ID          string      `json:"id" yaml:"id"`
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`
}

// Roster is the static set of entities fixed for the process lifetime.
type Roster struct {
	Helpers   []Helper      `json:"helpers" yaml:"helpers"`
	Houses    []HouseClient `json:"houses" yaml:"houses"`
	Laundries []Laundry     `json:"laundries" yaml:"laundries"`
	Vehicles  []Vehicle     `json:"vehicles" yaml:"vehicles"`
}

// FindHelper returns the first helper with the given id.
func (r Roster) FindHelper(id string) (Helper, bool) {
	for _, h := range r.Helpers {
		if h.ID == id {
			return h, true
		}
	}
	return Helper{}, false
}

// FindHouse returns the first house with the given id.
func (r Roster) FindHouse(id string) (HouseClient, bool) {
	for _, h := range r.Houses {
		if h.ID == id {
			return h, true
		}
	}
	return HouseClient{}, false
}

// FindLaundry returns the first laundry with the given id.
func (r Roster) FindLaundry(id string) (Laundry, bool) {
	for _, l := range r.Laundries {
		if l.ID == id {
			return l, true
		}
	}
	return Laundry{}, false
}

// FindVehicle returns the first vehicle with the given id.
func (r Roster) FindVehicle(id string) (Vehicle, bool) {
	for _, v := range r.Vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return Vehicle{}, false
}

// HelperStatus reports whether an active helper can take work.
type HelperStatus string

const (
	HelperAvailable   HelperStatus = "available"
	HelperUnavailable HelperStatus = "unavailable"
)

// HelperActivity is the simulation view of a helper: whether it is on
// shift (Active) and whether it is free right now.
type HelperActivity struct {
	ID     string       `json:"id"`
	Status HelperStatus `json:"status"`
	Active bool         `json:"active"`
}

// ActiveHelpers filters the entries that are on shift, preserving order.
func ActiveHelpers(entries []HelperActivity) []HelperActivity {
	var res []HelperActivity
	for _, e := range entries {
		if e.Active {
			res = append(res, e)
		}
	}
	return res
}
