package geoservice

// ServiceabilityResponse ответ геосервиса о покрытии точки зоной обслуживания
type ServiceabilityResponse struct {
	Serviceable bool   `json:"serviceable"`
	Zone        string `json:"zone,omitempty"`
}
