package model

import "github.com/shopspring/decimal"

// Funcionario is an employee row in the CRM directory. The HR system owns
// these rows; the bot only reads them.
type Funcionario struct {
	Codigo     string `gorm:"primaryKey;column:codigo" json:"codigo"`
	Nombre     string `json:"nombre"`
	TipoLibre  string `gorm:"column:tipo_libre" json:"tipo_libre"` // Saturday rotation, A or B
	AliasSlack string `gorm:"uniqueIndex;column:alias_slack" json:"alias_slack"`
	Usuario    string `json:"-"` // Uniproduct credentials, shown only to the owner via unicheck
	Clave      string `json:"-"`
	Activo     bool   `json:"activo"`
}

// Ticket links activity rows to the employee who worked them.
type Ticket struct {
	ID                int    `gorm:"primaryKey" json:"id"`
	FuncionarioCodigo string `gorm:"column:funcionario_codigo" json:"funcionario_codigo"`
}

// Actividad is one logged unit of work against a ticket. Horas is a DECIMAL
// hours column; conversion to minutes happens in the timesheet package.
type Actividad struct {
	ID       int             `gorm:"primaryKey" json:"id"`
	TicketID int             `gorm:"column:ticket_id" json:"ticket_id"`
	Fecha    string          `gorm:"type:date" json:"fecha"`
	Horas    decimal.Decimal `gorm:"type:decimal(6,2)" json:"horas"`
}

// Tarea is a GeneXus task. Notificada is the idempotency marker the batch
// relay flips after a successful send.
type Tarea struct {
	ID             int    `gorm:"primaryKey" json:"id"`
	Titulo         string `json:"titulo"`
	CreadorCodigo  string `gorm:"column:creador_codigo" json:"creador_codigo"`
	AsignadoCodigo string `gorm:"column:asignado_codigo" json:"asignado_codigo"`
	Notificada     bool   `json:"notificada"`
}

func (Funcionario) TableName() string { return "funcionarios" }
func (Ticket) TableName() string      { return "tickets" }
func (Actividad) TableName() string   { return "actividades" }
func (Tarea) TableName() string       { return "tareas" }
