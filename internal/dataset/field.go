package dataset

import "fmt"

// Field names one attribute of a transaction-line record. Values match the
// header names of the source file.
type Field string

const (
	OrderID         Field = "order_id"
	CustomerState   Field = "customer_state"
	ProductCategory Field = "product_category_name_english"
	PaymentValue    Field = "payment_value"
	ReviewScore     Field = "review_score"

	OrderPurchaseTimestamp     Field = "order_purchase_timestamp"
	OrderApprovedAt            Field = "order_approved_at"
	OrderDeliveredCarrierDate  Field = "order_delivered_carrier_date"
	OrderDeliveredCustomerDate Field = "order_delivered_customer_date"
	OrderEstimatedDeliveryDate Field = "order_estimated_delivery_date"
	ShippingLimitDate          Field = "shipping_limit_date"
)

// Kind is the value type a field holds once parsed.
type Kind int

const (
	KindText Kind = iota + 1
	KindNumber
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// requiredFields is the header contract, in the order columns are reported when missing.
var requiredFields = []Field{
	OrderID,
	CustomerState,
	ProductCategory,
	PaymentValue,
	ReviewScore,
	OrderPurchaseTimestamp,
	OrderApprovedAt,
	OrderDeliveredCarrierDate,
	OrderDeliveredCustomerDate,
	OrderEstimatedDeliveryDate,
	ShippingLimitDate,
}

var fieldKinds = map[Field]Kind{
	OrderID:                    KindText,
	CustomerState:              KindText,
	ProductCategory:            KindText,
	PaymentValue:               KindNumber,
	ReviewScore:                KindNumber,
	OrderPurchaseTimestamp:     KindTime,
	OrderApprovedAt:            KindTime,
	OrderDeliveredCarrierDate:  KindTime,
	OrderDeliveredCustomerDate: KindTime,
	OrderEstimatedDeliveryDate: KindTime,
	ShippingLimitDate:          KindTime,
}

// Kind returns the value kind of f, or false if f is not a known field.
func (f Field) Kind() (Kind, bool) {
	k, ok := fieldKinds[f]
	return k, ok
}

// RequiredFields returns every column the source header must name.
func RequiredFields() []Field {
	out := make([]Field, len(requiredFields))
	copy(out, requiredFields)
	return out
}

// TimeFields returns the six order-lifecycle timestamp fields.
func TimeFields() []Field {
	var out []Field
	for _, f := range requiredFields {
		if fieldKinds[f] == KindTime {
			out = append(out, f)
		}
	}
	return out
}

// ParseField resolves a field name, failing with ErrUnknownField.
func ParseField(name string) (Field, error) {
	f := Field(name)
	if _, ok := fieldKinds[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}
