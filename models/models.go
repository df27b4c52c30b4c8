package models

import "time"

// Damage point severity levels.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// DamagePoint is one located annotation on the truck diagram. X and Y are
// percentage offsets into the reference image, not pixels, so points stay
// valid at any render resolution.
type DamagePoint struct {
	Id          string  `json:"id"`
	X           float64 `json:"x"` // 0-100
	Y           float64 `json:"y"` // 0-100
	Description string  `json:"description"`
	Severity    string  `json:"severity"` // low, medium or high.
}

// Report is one stored inspection submission as returned on the read path.
// The four sub-structured fields hold their decoded shape ([]DamagePoint,
// map[int]bool, map[int]int, map[int][]string) or the raw column text when a
// stored value does not parse; they are display-only downstream and consumers
// accept either.
type Report struct {
	Id                        int64     `json:"id"`
	DriverName                string    `json:"driverName"`
	TruckNumber               string    `json:"truckNumber"`
	Date                      string    `json:"date"` // ISO calendar date.
	DamagePoints              any       `json:"damagePoints"`
	InspectionValues          any       `json:"inspectionValues"`
	ToolValues                any       `json:"toolValues"`
	ToolImages                any       `json:"toolImages"`
	DriverSignature           string    `json:"driverSignature"`
	EquipmentManagerSignature string    `json:"equipmentManagerSignature"`
	LogisticsManagerSignature string    `json:"logisticsManagerSignature"`
	WarehouseManagerSignature string    `json:"warehouseManagerSignature"`
	CreatedAt                 time.Time `json:"createdAt"`
}

// DamagePointList returns the structured damage points, or nil when the
// stored field degraded to raw text.
func (r *Report) DamagePointList() []DamagePoint {
	l, _ := r.DamagePoints.([]DamagePoint)
	return l
}

func (r *Report) InspectionMap() map[int]bool {
	m, _ := r.InspectionValues.(map[int]bool)
	return m
}

func (r *Report) ToolCountMap() map[int]int {
	m, _ := r.ToolValues.(map[int]int)
	return m
}

func (r *Report) ToolImageMap() map[int][]string {
	m, _ := r.ToolImages.(map[int][]string)
	return m
}

// SubmitReportArgs is the write-path payload produced by the inspection form.
// Signatures and tool images are data-URI strings; an empty string means the
// signature was not provided.
type SubmitReportArgs struct {
	DriverName                string           `json:"driverName"`
	TruckNumber               string           `json:"truckNumber"`
	Date                      string           `json:"date"`
	DamagePoints              []DamagePoint    `json:"damagePoints"`
	InspectionValues          map[int]bool     `json:"inspectionValues"`
	ToolValues                map[int]int      `json:"toolValues"`
	ToolImages                map[int][]string `json:"toolImages"`
	DriverSignature           string           `json:"driverSignature"`
	EquipmentManagerSignature string           `json:"equipmentManagerSignature"`
	LogisticsManagerSignature string           `json:"logisticsManagerSignature"`
	WarehouseManagerSignature string           `json:"warehouseManagerSignature"`
}

type SubmitReportResponse struct {
	Success bool   `json:"success"`
	Id      int64  `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}
