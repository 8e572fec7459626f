package config

import "testing"

// fakeLogger is a minimal logging.Logger implementation for tests, just
// recording whatever gets logged so assertions can check it fired.
type fakeLogger struct {
	entries []string
}

func (l *fakeLogger) SetLevel(int8)                                 {}
func (l *fakeLogger) Log(level int8, msg string, params ...interface{}) { l.entries = append(l.entries, msg) }
func (l *fakeLogger) Debug(msg string, params ...interface{})       { l.entries = append(l.entries, msg) }
func (l *fakeLogger) Info(msg string, params ...interface{})       { l.entries = append(l.entries, msg) }
func (l *fakeLogger) Warning(msg string, params ...interface{})    { l.entries = append(l.entries, msg) }
func (l *fakeLogger) Error(msg string, params ...interface{})      { l.entries = append(l.entries, msg) }
func (l *fakeLogger) Fatal(msg string, params ...interface{})      { l.entries = append(l.entries, msg) }

func TestValidateFlagsBadDimensions(t *testing.T) {
	log := &fakeLogger{}
	c := Config{Width: 0, Height: 5, Logger: log}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate returned an error: %v", err)
	}
	if len(log.entries) < 2 {
		t.Errorf("expected Width and Height to both be flagged, got %d log entries", len(log.entries))
	}
}

func TestValidateDefaultsOutOfRangeQualityFactor(t *testing.T) {
	log := &fakeLogger{}
	c := Config{Width: 4, Height: 4, QualityFactor: 150, Logger: log}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate returned an error: %v", err)
	}
	if c.QualityFactor != defaultQualityFactor {
		t.Errorf("QualityFactor = %d, want default %d", c.QualityFactor, defaultQualityFactor)
	}
}

func TestValidateAcceptsGoodConfig(t *testing.T) {
	log := &fakeLogger{}
	c := Config{Width: 64, Height: 32, QualityFactor: 80, Logger: log}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate returned an error: %v", err)
	}
	if len(log.entries) != 0 {
		t.Errorf("valid config logged %d entries, want 0: %v", len(log.entries), log.entries)
	}
}

func TestUpdateParsesFields(t *testing.T) {
	log := &fakeLogger{}
	c := Config{Logger: log}
	c.Update(map[string]string{
		KeyWidth:         "16",
		KeyHeight:        "8",
		KeyQualityFactor: "90",
		KeyGrayOnly:      "true",
		KeyNoThreads:     "false",
	})
	if c.Width != 16 || c.Height != 8 {
		t.Errorf("Width/Height = %d/%d, want 16/8", c.Width, c.Height)
	}
	if c.QualityFactor != 90 {
		t.Errorf("QualityFactor = %d, want 90", c.QualityFactor)
	}
	if !c.GrayOnly {
		t.Errorf("GrayOnly = false, want true")
	}
	if c.NoThreads {
		t.Errorf("NoThreads = true, want false")
	}
}

func TestUpdateIgnoresUnknownKeys(t *testing.T) {
	log := &fakeLogger{}
	c := Config{Logger: log}
	c.Update(map[string]string{"NotARealKey": "123"})
	if c != (Config{Logger: log}) {
		t.Errorf("Update with an unknown key mutated the config: %+v", c)
	}
}
