package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/apex/log"

	"truckcheck/models"
)

// Canonical field names of a report. The two backends disagree on column
// casing, so every statement goes through a per-backend column table keyed by
// these names; nothing outside this file and the backend tables knows the
// physical column names.
const (
	fieldId                        = "id"
	fieldDriverName                = "driverName"
	fieldTruckNumber               = "truckNumber"
	fieldDate                      = "date"
	fieldDamagePoints              = "damagePoints"
	fieldInspectionValues          = "inspectionValues"
	fieldToolValues                = "toolValues"
	fieldToolImages                = "toolImages"
	fieldDriverSignature           = "driverSignature"
	fieldEquipmentManagerSignature = "equipmentManagerSignature"
	fieldLogisticsManagerSignature = "logisticsManagerSignature"
	fieldWarehouseManagerSignature = "warehouseManagerSignature"
	fieldCreatedAt                 = "createdAt"
)

// reportFields is the column order used by inserts and selects, excluding the
// backend-assigned id and createdAt.
var reportFields = []string{
	fieldDriverName,
	fieldTruckNumber,
	fieldDate,
	fieldDamagePoints,
	fieldInspectionValues,
	fieldToolValues,
	fieldToolImages,
	fieldDriverSignature,
	fieldEquipmentManagerSignature,
	fieldLogisticsManagerSignature,
	fieldWarehouseManagerSignature,
}

// columns maps canonical field names to one backend's column names.
type columns map[string]string

func (c columns) of(field string) string {
	if col, ok := c[field]; ok {
		return col
	}
	return field
}

// fieldOf is the inverse lookup.
func (c columns) fieldOf(column string) (string, bool) {
	for field, col := range c {
		if col == column {
			return field, true
		}
	}
	return "", false
}

func insertReportSQL(table string, cols columns) string {
	names := make([]string, 0, len(reportFields))
	for _, f := range reportFields {
		names = append(names, cols.of(f))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), placeholders)
}

func selectReportSQL(table string, cols columns) string {
	names := make([]string, 0, len(reportFields)+2)
	names = append(names, cols.of(fieldId))
	for _, f := range reportFields {
		names = append(names, cols.of(f))
	}
	names = append(names, cols.of(fieldCreatedAt))
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(names, ", "), table)
}

// encodeReport serializes the sub-structured fields to JSON text and returns
// the insert values in reportFields order. Inputs come from the typed form
// payload, so marshaling cannot realistically fail; an error here is a
// programming bug and is reported anyway.
func encodeReport(args *models.SubmitReportArgs) ([]any, error) {
	damage, err := json.Marshal(args.DamagePoints)
	if err != nil {
		return nil, err
	}
	inspection, err := json.Marshal(args.InspectionValues)
	if err != nil {
		return nil, err
	}
	tools, err := json.Marshal(args.ToolValues)
	if err != nil {
		return nil, err
	}
	images, err := json.Marshal(args.ToolImages)
	if err != nil {
		return nil, err
	}
	return []any{
		args.DriverName,
		args.TruckNumber,
		args.Date,
		string(damage),
		string(inspection),
		string(tools),
		string(images),
		args.DriverSignature,
		args.EquipmentManagerSignature,
		args.LogisticsManagerSignature,
		args.WarehouseManagerSignature,
	}, nil
}

// decodeField tries the structured decode and returns the raw text unchanged
// when it fails. Legacy and hand-edited rows hold non-JSON text; those fields
// are display-only downstream, so degrading beats rejecting the row.
func decodeField[T any](raw sql.NullString) any {
	if !raw.Valid {
		return nil
	}
	var v T
	if err := json.Unmarshal([]byte(raw.String), &v); err != nil {
		return raw.String
	}
	return v
}

// reportRow is one scanned row in selectReportSQL order.
type reportRow struct {
	id          int64
	driverName  string
	truckNumber string
	date        string

	damagePoints     sql.NullString
	inspectionValues sql.NullString
	toolValues       sql.NullString
	toolImages       sql.NullString

	driverSignature           sql.NullString
	equipmentManagerSignature sql.NullString
	logisticsManagerSignature sql.NullString
	warehouseManagerSignature sql.NullString

	createdAt time.Time
}

func (r *reportRow) scanFields() []any {
	return []any{
		&r.id, &r.driverName, &r.truckNumber, &r.date,
		&r.damagePoints, &r.inspectionValues, &r.toolValues, &r.toolImages,
		&r.driverSignature, &r.equipmentManagerSignature,
		&r.logisticsManagerSignature, &r.warehouseManagerSignature,
		&r.createdAt,
	}
}

func decodeReportRow(row *reportRow) models.Report {
	return models.Report{
		Id:                        row.id,
		DriverName:                row.driverName,
		TruckNumber:               row.truckNumber,
		Date:                      row.date,
		DamagePoints:              decodeField[[]models.DamagePoint](row.damagePoints),
		InspectionValues:          decodeField[map[int]bool](row.inspectionValues),
		ToolValues:                decodeField[map[int]int](row.toolValues),
		ToolImages:                decodeField[map[int][]string](row.toolImages),
		DriverSignature:           row.driverSignature.String,
		EquipmentManagerSignature: row.equipmentManagerSignature.String,
		LogisticsManagerSignature: row.logisticsManagerSignature.String,
		WarehouseManagerSignature: row.warehouseManagerSignature.String,
		CreatedAt:                 row.createdAt,
	}
}

// scanReports drains rows into decoded reports. A row that fails to scan is
// logged and skipped; one malformed row must not abort the listing.
func scanReports(rows *sql.Rows) []models.Report {
	reports := make([]models.Report, 0, 16)
	for rows.Next() {
		var row reportRow
		if err := rows.Scan(row.scanFields()...); err != nil {
			log.Warnf("Cannot scan a report row, skipping it: %v", err)
			continue
		}
		reports = append(reports, decodeReportRow(&row))
	}
	return reports
}
