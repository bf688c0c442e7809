package batch

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"despachos/rndc-gateway/internal/ingest"
	"despachos/rndc-gateway/internal/logging"
	"despachos/rndc-gateway/internal/validation"
)

var municipioSchema = validation.Schema{
	Name: "municipios",
	Fields: []validation.Field{
		{Name: "codigo", Required: true, Kind: validation.Identifier},
		{Name: "nombre", Required: true, Kind: validation.String},
		{Name: "departamento", Required: true, Kind: validation.String},
	},
}

func init() {
	logging.SetLogger(zap.NewNop())
}

func parseRows(t *testing.T, csv string) []ingest.Row {
	t.Helper()
	rows, err := ingest.ParseCSV([]byte(csv))
	require.NoError(t, err)
	return rows
}

func validateMunicipio(row ingest.Row) validation.Outcome {
	return validation.Validate(row, municipioSchema)
}

func TestRun_ThreeRowScenario(t *testing.T) {
	rows := parseRows(t, "codigo,nombre,departamento\n05001,Medellín,Antioquia\n08001,,Atlántico\n11001,Bogotá,Cundinamarca\n")

	var processed atomic.Int32
	res := Run(context.Background(), rows, Pipeline{
		Validate: validateMunicipio,
		Process: func(_ context.Context, _ ingest.Row, o validation.Outcome) SubmissionResult {
			processed.Add(1)
			return SubmissionResult{Success: true, Consecutivo: o.Values.String("codigo")}
		},
	}, Options{})

	assert.Equal(t, 3, res.TotalProcessed)
	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 1, res.ErrorCount)
	assert.NotEmpty(t, res.BatchID)
	require.Len(t, res.Results, 3)

	assert.False(t, res.Results[1].Success)
	assert.Equal(t, 2, res.Results[1].Row)
	require.Len(t, res.Results[1].Errors, 1)
	assert.Equal(t, "nombre", res.Results[1].Errors[0].Field)
	assert.Equal(t, "05001", res.Results[0].Consecutivo)
	// the invalid row never reached Process
	assert.Equal(t, int32(2), processed.Load())
}

func TestRun_PreservesOrderUnderConcurrency(t *testing.T) {
	csv := "codigo,nombre,departamento\n"
	for i := 1; i <= 40; i++ {
		csv += fmt.Sprintf("C%02d,Nombre %d,Depto\n", i, i)
	}
	rows := parseRows(t, csv)

	var inFlight, peak atomic.Int32
	res := Run(context.Background(), rows, Pipeline{
		Validate: validateMunicipio,
		Process: func(_ context.Context, row ingest.Row, o validation.Outcome) SubmissionResult {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
			inFlight.Add(-1)
			return SubmissionResult{Success: row.Index%5 != 0, Consecutivo: o.Values.String("codigo")}
		},
	}, Options{Concurrency: 4, ID: "fixed"})

	assert.Equal(t, "fixed", res.BatchID)
	require.Len(t, res.Results, 40)
	for i, r := range res.Results {
		assert.Equal(t, i+1, r.Row)
		assert.Equal(t, fmt.Sprintf("C%02d", i+1), r.Consecutivo)
	}
	assert.Equal(t, 32, res.SuccessCount)
	assert.Equal(t, 8, res.ErrorCount)
	assert.LessOrEqual(t, peak.Load(), int32(4))
	assert.Equal(t, res.TotalProcessed, res.SuccessCount+res.ErrorCount)
}

func TestRun_PanicBecomesRowFailure(t *testing.T) {
	rows := parseRows(t, "codigo,nombre,departamento\nA,B,C\nD,E,F\n")
	res := Run(context.Background(), rows, Pipeline{
		Validate: validateMunicipio,
		Process: func(_ context.Context, row ingest.Row, _ validation.Outcome) SubmissionResult {
			if row.Index == 1 {
				panic("nil map")
			}
			return SubmissionResult{Success: true}
		},
	}, Options{})

	require.Len(t, res.Results, 2)
	assert.False(t, res.Results[0].Success)
	assert.Contains(t, res.Results[0].Error, "nil map")
	assert.True(t, res.Results[1].Success)
	assert.Equal(t, 1, res.ErrorCount)
}

func TestRun_CancelledRowsAreCounted(t *testing.T) {
	rows := parseRows(t, "codigo,nombre,departamento\nA,B,C\nD,E,F\nG,H,I\n")
	ctx, cancel := context.WithCancel(context.Background())

	res := Run(ctx, rows, Pipeline{
		Validate: validateMunicipio,
		Process: func(_ context.Context, _ ingest.Row, _ validation.Outcome) SubmissionResult {
			cancel()
			return SubmissionResult{Success: true}
		},
	}, Options{})

	assert.Equal(t, 3, res.TotalProcessed)
	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, 2, res.ErrorCount)
	assert.Equal(t, ErrCancelled, res.Results[1].Error)
	assert.Equal(t, ErrCancelled, res.Results[2].Error)
	assert.Equal(t, 3, res.Results[2].Row)
}

func TestRun_EmptyInput(t *testing.T) {
	res := Run(context.Background(), nil, Pipeline{Validate: validateMunicipio}, Options{})
	assert.Equal(t, 0, res.TotalProcessed)
	assert.NotNil(t, res.Results)
}
