package language

import "testing"

func TestTrigramDetector(t *testing.T) {
	d := NewTrigramDetector(nil)

	t.Run("english prose", func(t *testing.T) {
		det := d.Detect([]byte("The quick brown fox jumps over the lazy dog. This is a plain English sentence repeated for good measure. The quick brown fox jumps over the lazy dog again."))
		if det.Language != "eng" {
			t.Errorf("language = %q, want eng", det.Language)
		}
		if det.Score <= 0 {
			t.Errorf("score = %v, want > 0", det.Score)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if det := d.Detect(nil); det != Unknown {
			t.Errorf("got %+v, want Unknown", det)
		}
	})

	t.Run("binary input", func(t *testing.T) {
		buf := make([]byte, 256)
		for i := range buf {
			buf[i] = byte(i)
		}
		det := d.Detect(buf)
		if det.Language == "" {
			t.Error("detector must always return a language code, unknown included")
		}
	})
}
