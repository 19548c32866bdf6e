package model

// NotifyResponse is the body of the task-notification endpoints. Benign
// terminal outcomes (recipient not found, already notified) still answer
// status "ok" with the outcome in Message.
type NotifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// FuncionariosResponse wraps the read-only employee listing.
type FuncionariosResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    []Funcionario `json:"data"`
}
