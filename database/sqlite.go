package database

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"truckcheck/models"
)

// SQLite keeps the original mixed-case column names; only createdat was ever
// flattened there.
var sqliteColumns = columns{
	fieldId:                        "id",
	fieldDriverName:                "driverName",
	fieldTruckNumber:               "truckNumber",
	fieldDate:                      "date",
	fieldDamagePoints:              "damagePoints",
	fieldInspectionValues:          "inspectionValues",
	fieldToolValues:                "toolValues",
	fieldToolImages:                "toolImages",
	fieldDriverSignature:           "driverSignature",
	fieldEquipmentManagerSignature: "equipmentManagerSignature",
	fieldLogisticsManagerSignature: "logisticsManagerSignature",
	fieldWarehouseManagerSignature: "warehouseManagerSignature",
	fieldCreatedAt:                 "createdat",
}

const sqliteSchema = `CREATE TABLE IF NOT EXISTS reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	driverName TEXT NOT NULL,
	truckNumber TEXT NOT NULL,
	date TEXT NOT NULL,
	damagePoints TEXT,
	inspectionValues TEXT,
	toolValues TEXT,
	toolImages TEXT,
	driverSignature TEXT,
	equipmentManagerSignature TEXT,
	logisticsManagerSignature TEXT,
	warehouseManagerSignature TEXT,
	createdat DATETIME DEFAULT CURRENT_TIMESTAMP
)`

type sqliteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens the embedded database file, creating it on first
// use. WAL keeps concurrent reads from blocking the submit path.
func NewSQLiteBackend(path string) (Backend, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	// A single writer; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)
	return &sqliteBackend{db: db}, nil
}

func (b *sqliteBackend) Kind() Kind { return KindSQLite }

func (b *sqliteBackend) Init(ctx context.Context) error {
	_, err := b.db.ExecContext(ctx, sqliteSchema)
	return err
}

func (b *sqliteBackend) CreateReport(ctx context.Context, args *models.SubmitReportArgs) (int64, error) {
	values, err := encodeReport(args)
	if err != nil {
		return 0, err
	}
	result, err := b.db.ExecContext(ctx, insertReportSQL("reports", sqliteColumns), values...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (b *sqliteBackend) GetReport(ctx context.Context, id int64) (*models.Report, error) {
	rows, err := b.db.QueryContext(ctx,
		selectReportSQL("reports", sqliteColumns)+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrNotFound
	}
	var row reportRow
	if err := rows.Scan(row.scanFields()...); err != nil {
		return nil, err
	}
	report := decodeReportRow(&row)
	return &report, nil
}

func (b *sqliteBackend) ListReports(ctx context.Context) ([]models.Report, error) {
	rows, err := b.db.QueryContext(ctx,
		selectReportSQL("reports", sqliteColumns)+" ORDER BY createdat DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := scanReports(rows)
	return reports, rows.Err()
}

func (b *sqliteBackend) Close() error { return b.db.Close() }
