package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"truckcheck/models"
)

// MySQL flattens every identifier to lowercase, unbroken.
var mysqlColumns = columns{
	fieldId:                        "id",
	fieldDriverName:                "drivername",
	fieldTruckNumber:               "trucknumber",
	fieldDate:                      "date",
	fieldDamagePoints:              "damagepoints",
	fieldInspectionValues:          "inspectionvalues",
	fieldToolValues:                "toolvalues",
	fieldToolImages:                "toolimages",
	fieldDriverSignature:           "driversignature",
	fieldEquipmentManagerSignature: "equipmentmanagersignature",
	fieldLogisticsManagerSignature: "logisticsmanagersignature",
	fieldWarehouseManagerSignature: "warehousemanagersignature",
	fieldCreatedAt:                 "createdat",
}

const mysqlSchema = `CREATE TABLE IF NOT EXISTS reports (
	id INT NOT NULL AUTO_INCREMENT,
	drivername TEXT NOT NULL,
	trucknumber TEXT NOT NULL,
	date TEXT NOT NULL,
	damagepoints MEDIUMTEXT,
	inspectionvalues MEDIUMTEXT,
	toolvalues MEDIUMTEXT,
	toolimages LONGTEXT,
	driversignature MEDIUMTEXT,
	equipmentmanagersignature MEDIUMTEXT,
	logisticsmanagersignature MEDIUMTEXT,
	warehousemanagersignature MEDIUMTEXT,
	createdat TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (id)
)`

type mysqlBackend struct {
	db *sql.DB
}

// NewMySQLBackend opens a bounded connection pool against the networked
// backend. Reachability is not checked here; Init reports it so the process
// can come up degraded when the database is down at boot.
func NewMySQLBackend(dsn string) (Backend, error) {
	db, err := sql.Open("mysql", normalizeDSN(dsn))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	return &mysqlBackend{db: db}, nil
}

// normalizeDSN makes the driver return DATETIME columns as time.Time.
func normalizeDSN(dsn string) string {
	if strings.Contains(dsn, "parseTime") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "parseTime=true"
}

func (b *mysqlBackend) Kind() Kind { return KindMySQL }

func (b *mysqlBackend) Init(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := b.db.PingContext(pingCtx); err != nil {
		return err
	}
	_, err := b.db.ExecContext(ctx, mysqlSchema)
	return err
}

func (b *mysqlBackend) CreateReport(ctx context.Context, args *models.SubmitReportArgs) (int64, error) {
	values, err := encodeReport(args)
	if err != nil {
		return 0, err
	}
	result, err := b.db.ExecContext(ctx, insertReportSQL("reports", mysqlColumns), values...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (b *mysqlBackend) GetReport(ctx context.Context, id int64) (*models.Report, error) {
	rows, err := b.db.QueryContext(ctx,
		selectReportSQL("reports", mysqlColumns)+" WHERE id = ?", id)
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

func (b *mysqlBackend) ListReports(ctx context.Context) ([]models.Report, error) {
	rows, err := b.db.QueryContext(ctx,
		selectReportSQL("reports", mysqlColumns)+" ORDER BY createdat DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := scanReports(rows)
	return reports, rows.Err()
}

func (b *mysqlBackend) Close() error { return b.db.Close() }
