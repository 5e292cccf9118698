package recorder

import "TwoDBook/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordBets(_, _ string, _ []model.Bet) error      { return nil }
func (n *NoopRecorder) RecordUndo(_, _ string, _ []model.Bet) error      { return nil }
func (n *NoopRecorder) RecordOverbuy(_, _ string, _ map[int]int) error   { return nil }
func (n *NoopRecorder) RecordSettlement(_ *model.SettlementReport) error { return nil }
func (n *NoopRecorder) RecordPeriodEvent(_, _ string) error              { return nil }
func (n *NoopRecorder) Close() error                                     { return nil }
