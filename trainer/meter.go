package trainer

// AverageMeter keeps the latest value and running average of a metric.
type AverageMeter struct {
	val, sum float64
	count    int
}

// Update records val observed over n samples.
func (m *AverageMeter) Update(val float64, n int) {
	m.val = val
	m.sum += val * float64(n)
	m.count += n
}

// Reset clears the meter.
func (m *AverageMeter) Reset() {
	*m = AverageMeter{}
}

// Val returns the latest value.
func (m *AverageMeter) Val() float64 { return m.val }

// Sum returns the weighted sum.
func (m *AverageMeter) Sum() float64 { return m.sum }

// Count returns the number of samples.
func (m *AverageMeter) Count() int { return m.count }

// Avg returns the weighted mean, 0 before any update.
func (m *AverageMeter) Avg() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

// Accuracy thresholds outputs at 0.5 and returns the share that match
// targets. Length mismatches compare the common prefix.
func Accuracy(outputs, targets []float64) float64 {
	n := min(len(outputs), len(targets))
	if n == 0 {
		return 0
	}
	correct := 0
	for i := 0; i < n; i++ {
		var b float64
		if outputs[i] > 0.5 {
			b = 1
		}
		if b == targets[i] {
			correct++
		}
	}
	return float64(correct) / float64(n)
}
