package email

type Message struct {
	To       []string
	CC       []string
	Subject  string
	TextBody string
	HTMLBody string
	Headers  map[string]string
}

// BookingData is what every booking email renders from.
type BookingData struct {
	AppName         string
	BaseURL         string
	Reference       string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Pickup          string
	Dropoff         string
	PickupTime      string
	VehicleType     string
	TripType        string
	Passengers      int
	Price           string
	CancellationURL string
	ReviewURL       string
	Reason          string
}
