// Package repository holds every CRM read the bot performs. All queries are
// read-only except MarcarNotificada, which flips the task idempotency flag.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"unibot/internal/model"
	"unibot/internal/timesheet"
)

const dateLayout = "2006-01-02"

type CRM struct {
	db *gorm.DB
}

func New(db *gorm.DB) *CRM { return &CRM{db: db} }

// FuncionarioByAlias resolves an employee by their Slack alias. A missing row
// is not an error: it returns (nil, nil) and the caller renders the outcome.
func (r *CRM) FuncionarioByAlias(ctx context.Context, alias string) (*model.Funcionario, error) {
	var f model.Funcionario
	err := r.db.WithContext(ctx).Where("alias_slack = ?", alias).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query funcionario by alias: %w", err)
	}
	return &f, nil
}

func (r *CRM) FuncionarioByCodigo(ctx context.Context, codigo string) (*model.Funcionario, error) {
	var f model.Funcionario
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query funcionario by codigo: %w", err)
	}
	return &f, nil
}

func (r *CRM) FuncionariosActivos(ctx context.Context) ([]model.Funcionario, error) {
	var fs []model.Funcionario
	err := r.db.WithContext(ctx).Where("activo = ?", true).Order("codigo").Find(&fs).Error
	if err != nil {
		return nil, fmt.Errorf("query funcionarios activos: %w", err)
	}
	return fs, nil
}

// MinutesByDay sums logged minutes per date for one employee over an
// inclusive date range, in a single grouped query joining activities to
// tickets. Dates with no rows are simply absent from the map.
func (r *CRM) MinutesByDay(ctx context.Context, codigo string, desde, hasta time.Time) (map[string]int, error) {
	var rows []struct {
		Fecha string
		Horas decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&model.Actividad{}).
		Select("DATE_FORMAT(actividades.fecha, '%Y-%m-%d') AS fecha, SUM(actividades.horas) AS horas").
		Joins("JOIN tickets ON tickets.id = actividades.ticket_id").
		Where("tickets.funcionario_codigo = ? AND actividades.fecha BETWEEN ? AND ?",
			codigo, desde.Format(dateLayout), hasta.Format(dateLayout)).
		Group("actividades.fecha").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query minutes by day: %w", err)
	}

	minutes := make(map[string]int, len(rows))
	for _, row := range rows {
		minutes[row.Fecha] = timesheet.MinutesFromHours(row.Horas)
	}
	return minutes, nil
}

func (r *CRM) TareaByID(ctx context.Context, id int) (*model.Tarea, error) {
	var t model.Tarea
	err := r.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query tarea %d: %w", id, err)
	}
	return &t, nil
}

func (r *CRM) TareasNoNotificadas(ctx context.Context) ([]model.Tarea, error) {
	var ts []model.Tarea
	err := r.db.WithContext(ctx).Where("notificada = ?", false).Order("id").Find(&ts).Error
	if err != nil {
		return nil, fmt.Errorf("query tareas sin notificar: %w", err)
	}
	return ts, nil
}

func (r *CRM) MarcarNotificada(ctx context.Context, id int) error {
	err := r.db.WithContext(ctx).Model(&model.Tarea{}).Where("id = ?", id).
		Update("notificada", true).Error
	if err != nil {
		return fmt.Errorf("marcar tarea %d notificada: %w", id, err)
	}
	return nil
}
