package health

type Input struct{}

type Output struct {
	Body Response
}

// Response - состояние сервера и его хранилища
type Response struct {
	Status  string `json:"status" example:"OK" doc:"Health status of the service"`
	Storage string `json:"storage" example:"postgres" doc:"Storage backend"`
	Uptime  string `json:"uptime" example:"1h2m3s" doc:"Time since start"`
}
