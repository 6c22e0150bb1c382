package models

import "time"

// Field names one of the eight answers collected per order
type Field string

const (
	FieldName         Field = "name"
	FieldPhone        Field = "phone"
	FieldDurian       Field = "durian"
	FieldQty          Field = "qty"
	FieldPacking      Field = "packing"
	FieldAddress      Field = "address"
	FieldDeliveryDate Field = "delivery_date"
	FieldDeliveryTime Field = "delivery_time"
)

// OrderFields is the fixed column order of a stored order, after the timestamp
var OrderFields = []Field{
	FieldName,
	FieldPhone,
	FieldDurian,
	FieldQty,
	FieldPacking,
	FieldAddress,
	FieldDeliveryDate,
	FieldDeliveryTime,
}

// TimestampLayout is the civil-time layout of OrderRecord.Timestamp (YYYY-MM-DD HH:MM:SS)
const TimestampLayout = "2006-01-02 15:04:05"

// HeaderRow is row 0 of every order sheet
var HeaderRow = []string{
	"Timestamp",
	"Name",
	"Phone",
	"Durian",
	"Qty",
	"Packing",
	"Address",
	"Delivery Date",
	"Delivery Time",
}

// RowWidth is the number of cells in a stored order row
const RowWidth = 9

// OrderRecord is one finalized order as appended to the store
type OrderRecord struct {
	Timestamp    string `json:"timestamp"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Durian       string `json:"durian"`
	Qty          string `json:"qty"`
	Packing      string `json:"packing"`
	Address      string `json:"address"`
	DeliveryDate string `json:"delivery_date"`
	DeliveryTime string `json:"delivery_time"`
}

// NewOrderRecord builds a record from collected answers. Missing answers become empty cells.
func NewOrderRecord(ts time.Time, answers map[Field]string) OrderRecord {
	return OrderRecord{
		Timestamp:    ts.Format(TimestampLayout),
		Name:         answers[FieldName],
		Phone:        answers[FieldPhone],
		Durian:       answers[FieldDurian],
		Qty:          answers[FieldQty],
		Packing:      answers[FieldPacking],
		Address:      answers[FieldAddress],
		DeliveryDate: answers[FieldDeliveryDate],
		DeliveryTime: answers[FieldDeliveryTime],
	}
}

// Row returns the record as [timestamp, name, phone, durian, qty, packing, address, delivery_date, delivery_time]
func (r OrderRecord) Row() []string {
	return []string{
		r.Timestamp,
		r.Name,
		r.Phone,
		r.Durian,
		r.Qty,
		r.Packing,
		r.Address,
		r.DeliveryDate,
		r.DeliveryTime,
	}
}

// OrderRecordFromRow parses a stored row. Short rows (sheets drop trailing empty cells) are padded.
func OrderRecordFromRow(row []string) OrderRecord {
	cells := make([]string, RowWidth)
	copy(cells, row)
	return OrderRecord{
		Timestamp:    cells[0],
		Name:         cells[1],
		Phone:        cells[2],
		Durian:       cells[3],
		Qty:          cells[4],
		Packing:      cells[5],
		Address:      cells[6],
		DeliveryDate: cells[7],
		DeliveryTime: cells[8],
	}
}

// OrderRow is the database representation of one sheet row
type OrderRow struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Timestamp    string `gorm:"size:19;not null"`
	Name         string `gorm:"type:text"`
	Phone        string `gorm:"type:text"`
	Durian       string `gorm:"type:text"`
	Qty          string `gorm:"type:text"`
	Packing      string `gorm:"type:text"`
	Address      string `gorm:"type:text"`
	DeliveryDate string `gorm:"type:text"`
	DeliveryTime string `gorm:"type:text"`
	CreatedAt    time.Time
}

// TableName pins the table name regardless of naming strategy
func (OrderRow) TableName() string {
	return "order_rows"
}
