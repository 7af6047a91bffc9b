// Package anomaly implementa el motor de detección de anomalías de facturas
// (servicio de dominio puro: cómputo sobre montos ya validados, sin I/O).
package anomaly

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costguard-api/internal/domain/entity"
)

// HistoryWindow es el tamaño máximo de la ventana estadística: las 25 facturas
// previas más recientes del proveedor, por fecha descendente.
const HistoryWindow = 25

// minHistoryForStats es el mínimo de facturas previas para aplicar la regla 3-sigma.
const minHistoryForStats = 5

// statPrecision: dígitos de precisión en las divisiones estadísticas. Las sumas
// de desviaciones cuadradas acumulan error si se redondea antes de tiempo.
const statPrecision = 28

var (
	highMultiplier = decimal.NewFromFloat(1.5)
	sigmaFactor    = decimal.NewFromInt(3)
)

// Draft es una anomalía candidata todavía sin persistir (sin ID ni factura asociada).
type Draft struct {
	Type       string
	Severity   string
	ReasonText string
}

// Input agrupa lo que los detectores necesitan de la factura nueva y del estado
// ya confirmado del proveedor. DuplicateExists viene de una consulta exacta
// (mismo vendor, misma fecha, mismo total) contra filas ya commiteadas; History
// son los totales de facturas previas, máximo HistoryWindow, más recientes primero.
type Input struct {
	InvoiceDate     time.Time
	Total           decimal.Decimal
	DuplicateExists bool
	History         []decimal.Decimal
}

// outcome acumula el resultado parcial entre detectores. Los dos detectores de
// total anómalo son excluyentes: si el umbral 1.5x dispara, el estadístico se
// suprime para no marcar dos veces la misma factura por razones solapadas.
type outcome struct {
	drafts          []Draft
	average         decimal.Decimal
	haveAverage     bool
	abnormalFlagged bool
}

// detector recibe el input y el resultado parcial de los detectores anteriores.
type detector func(in Input, out *outcome)

// Orden fijo: el umbral alto corre antes que el estadístico porque lo suprime.
var detectors = []detector{
	detectDuplicate,
	detectHighTotal,
	detectStatisticalOutlier,
}

// Detect corre los detectores en orden contra la misma factura. Cualquier
// subconjunto puede disparar; cada detector emite a lo sumo un draft. Nunca
// retorna error: con historia insuficiente degrada a cero anomalías.
func Detect(in Input) []Draft {
	var out outcome
	if len(in.History) > 0 {
		out.average = average(in.History)
		out.haveAverage = true
	}
	for _, d := range detectors {
		d(in, &out)
	}
	return out.drafts
}

// detectDuplicate: otra factura del mismo proveedor con misma fecha y mismo
// total exacto (la moneda no forma parte de la clave de matching).
func detectDuplicate(in Input, out *outcome) {
	if !in.DuplicateExists {
		return
	}
	out.drafts = append(out.drafts, Draft{
		Type:     entity.AnomalyTypeDuplicate,
		Severity: entity.SeverityMedium,
		ReasonText: fmt.Sprintf(
			"Duplicate invoice: an existing invoice for this vendor has the same date %s and total %s",
			in.InvoiceDate.Format("2006-01-02"), in.Total.StringFixed(2),
		),
	})
}

// detectHighTotal: el total nuevo es al menos 1.5x el promedio de la historia.
func detectHighTotal(in Input, out *outcome) {
	if !out.haveAverage {
		return
	}
	if in.Total.LessThan(out.average.Mul(highMultiplier)) {
		return
	}
	out.abnormalFlagged = true
	out.drafts = append(out.drafts, Draft{
		Type:     entity.AnomalyTypeAbnormalTotal,
		Severity: entity.SeverityHigh,
		ReasonText: fmt.Sprintf(
			"Total %s is at least 1.5x the recent average %s for this vendor",
			in.Total.StringFixed(2), out.average.StringFixed(2),
		),
	})
}

// detectStatisticalOutlier: regla 3-sigma sobre la desviación estándar
// poblacional de la ventana. Solo corre con historia suficiente y si el
// detector de umbral no marcó ya la factura. No es un estimador robusto:
// un outlier ya presente en la ventana infla sigma, limitación aceptada.
func detectStatisticalOutlier(in Input, out *outcome) {
	if out.abnormalFlagged || !out.haveAverage || len(in.History) < minHistoryForStats {
		return
	}

	stdDev := populationStdDev(in.History, out.average)
	if stdDev.Sign() <= 0 {
		return
	}
	deviation := in.Total.Sub(out.average)
	if deviation.Abs().LessThan(stdDev.Mul(sigmaFactor)) {
		return
	}

	direction := "higher"
	if in.Total.LessThan(out.average) {
		direction = "lower"
	}
	out.drafts = append(out.drafts, Draft{
		Type:     entity.AnomalyTypeAbnormalTotal,
		Severity: entity.SeverityHigh,
		ReasonText: fmt.Sprintf(
			"Total %s is %s than the recent average %s: deviation %s exceeds 3x the std dev %s",
			in.Total.StringFixed(2), direction, out.average.StringFixed(2),
			deviation.Abs().StringFixed(2), stdDev.StringFixed(2),
		),
	})
}

func average(history []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, amount := range history {
		sum = sum.Add(amount)
	}
	return sum.DivRound(decimal.NewFromInt(int64(len(history))), statPrecision)
}

// populationStdDev calcula la desviación estándar poblacional (divide entre N,
// no N-1: la ventana es la población completa que nos interesa).
func populationStdDev(history []decimal.Decimal, avg decimal.Decimal) decimal.Decimal {
	squaredSum := decimal.Zero
	for _, amount := range history {
		diff := amount.Sub(avg)
		squaredSum = squaredSum.Add(diff.Mul(diff))
	}
	variance := squaredSum.DivRound(decimal.NewFromInt(int64(len(history))), statPrecision)
	return sqrtDecimal(variance)
}

// sqrtDecimal: raíz cuadrada por Newton-Raphson sobre decimal, con semilla
// float64. Cuatro iteraciones desde esa semilla sobran para statPrecision
// en el rango de montos NUMERIC(12,2).
func sqrtDecimal(d decimal.Decimal) decimal.Decimal {
	if d.Sign() <= 0 {
		return decimal.Zero
	}
	seed, _ := d.Float64()
	x := decimal.NewFromFloat(math.Sqrt(seed))
	if x.Sign() <= 0 {
		x = decimal.New(1, 0)
	}
	two := decimal.New(2, 0)
	for i := 0; i < 4; i++ {
		x = x.Add(d.DivRound(x, statPrecision)).DivRound(two, statPrecision)
	}
	return x
}
