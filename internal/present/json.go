package present

import (
	"encoding/json"
	"io"
	"time"

	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/sensor"
)

type jsonSensor struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

type jsonSnapshot struct {
	Time    time.Time    `json:"time"`
	Sensors []jsonSensor `json:"sensors"`
}

type jsonPresenter struct {
	enc *json.Encoder
}

// NewJSON writes one JSON object per snapshot, newline delimited.
func NewJSON(w io.Writer) Presenter {
	return &jsonPresenter{enc: json.NewEncoder(w)}
}

func (p *jsonPresenter) Present(snap sensor.Snapshot) error {
	doc := jsonSnapshot{
		Time:    snap.Time,
		Sensors: make([]jsonSensor, 0, snap.Len()),
	}
	for i, n := 0, snap.Len(); i < n; i++ {
		rec := snap.At(i)
		doc.Sensors = append(doc.Sensors, jsonSensor{Index: i, ID: rec.ID, Label: rec.Label, Value: rec.Value})
	}

	if err := p.enc.Encode(doc); err != nil {
		return errors.New().Wrap(ErrPresentFailed, err)
	}

	return nil
}
