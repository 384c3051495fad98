package market

import "fmt"

const (
	numberCapacity = 63
	nameCapacity   = 255
)

// Field is a marker and the byte that ends the value following it.
type Field struct {
	Marker string `yaml:"marker"`
	Stop   string `yaml:"stop"`
}

func (f Field) stop() byte {
	if f.Stop == "" {
		return ','
	}
	return f.Stop[0]
}

// Fields describes where the three displayed values live in a quote payload.
type Fields struct {
	Price         Field `yaml:"price"`
	PreviousClose Field `yaml:"previous_close"`
	Name          Field `yaml:"name"`
}

func DefaultFields() Fields {
	return Fields{
		Price:         Field{Marker: `"regularMarketPrice":`, Stop: ","},
		PreviousClose: Field{Marker: `"regularMarketPreviousClose":`, Stop: ","},
		Name:          Field{Marker: `"shortName":"`, Stop: `"`},
	}
}

// Parse extracts price, previous close and name. Any missing field fails the
// whole parse so the caller keeps its previous values.
func (f Fields) Parse(payload []byte) (Quote, error) {
	price, err := Extract(payload, f.Price.Marker, f.Price.stop(), numberCapacity)
	if err != nil {
		return Quote{}, fmt.Errorf("extract price: %w", err)
	}
	prev, err := Extract(payload, f.PreviousClose.Marker, f.PreviousClose.stop(), numberCapacity)
	if err != nil {
		return Quote{}, fmt.Errorf("extract previous close: %w", err)
	}
	name, err := Extract(payload, f.Name.Marker, f.Name.stop(), nameCapacity)
	if err != nil {
		return Quote{}, fmt.Errorf("extract name: %w", err)
	}
	return Quote{
		Name:          name,
		Price:         ParseFloat(price),
		PreviousClose: ParseFloat(prev),
	}, nil
}
