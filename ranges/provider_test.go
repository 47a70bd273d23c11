package ranges

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/intel/rsp-sw-toolkit-im-suite-expect"

	"github.com/book-industry-toolkit/bookcode/isbn"
)

const replacementData = `{
	"978": {"name": "fresh", "list": [{"start": 0, "end": 9999999, "length": 1}]},
	"978-5": {"name": "fresh group", "list": [{"start": 0, "end": 9999999, "length": 2}]}
}`

func TestDefault_bundledData(t *testing.T) {
	w := expect.WrapT(t)
	p := Default()
	defer p.Close()

	table := p.GetRanges("978")
	w.StopOnMismatch().ShouldBeTrue(table != nil)
	w.ShouldBeEqual(table.Agency, "International ISBN Agency")

	table = p.GetRanges("978-5")
	w.StopOnMismatch().ShouldBeTrue(table != nil)
	w.ShouldBeEqual(table.Agency, "former U.S.S.R")

	// music codes resolve against the fixed table in the isbn package, so
	// the bundled data carries no 979-0 entry
	w.ShouldBeTrue(p.GetRanges("979-0") == nil)
	w.ShouldBeTrue(p.GetRanges("nonsense") == nil)

	w.ShouldBeTrue(p.Len() > 0)
}

func TestDefault_bundledRangesWellFormed(t *testing.T) {
	// decodeTables revalidates every range; reaching here means the bundled
	// snapshot passed, so only the lookup-key shape is left to check
	w := expect.WrapT(t)
	p := Default()
	defer p.Close()

	for _, key := range []string{
		"978", "979",
		"978-0", "978-1", "978-2", "978-3", "978-4", "978-5",
		"979-8", "979-10", "979-11", "979-12",
	} {
		table := p.GetRanges(key)
		w.As(key).StopOnMismatch().ShouldBeTrue(table != nil)
		w.As(key).ShouldNotBeEmptyStr(table.Agency)
		w.As(key).ShouldBeTrue(len(table.Ranges) > 0)
	}
}

func TestProvider_endToEndParse(t *testing.T) {
	// the bundled snapshot must support the worked examples end to end
	w := expect.WrapT(t)
	d := isbn.NewDecoder(Default())

	c := w.ShouldHaveResult(d.Parse("978-5-17-095179-6")).(*isbn.BookCode)
	w.ShouldBeEqual(c.Agency(), "former U.S.S.R")
	w.ShouldBeEqual(c.RegistrantElement(), "17")

	isbn10 := w.ShouldHaveResult(d.ConvertToISBN10("978-5-17-095179-6", "-")).(string)
	w.ShouldBeEqual(isbn10, "5-17-095179-5")

	c = w.ShouldHaveResult(d.Parse("1-55404-295-X")).(*isbn.BookCode)
	w.ShouldBeEqual(c.Agency(), "English language")
	w.ShouldBeTrue(c.IsCheckDigitValid())
}

func TestProvider_Refresh(t *testing.T) {
	w := expect.WrapT(t)

	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.Write([]byte(replacementData))
	}))
	defer srv.Close()

	p := w.ShouldHaveResult(New(Config{URL: srv.URL})).(*Provider)
	defer p.Close()

	// bundled data until the first refresh
	w.ShouldBeEqual(p.GetRanges("978").Agency, "International ISBN Agency")

	w.ShouldSucceed(p.Refresh(context.Background()))

	// the snapshot was replaced wholesale: new names in, old keys out
	w.ShouldBeEqual(p.GetRanges("978").Agency, "fresh")
	w.ShouldBeEqual(p.GetRanges("978-5").Agency, "fresh group")
	w.ShouldBeTrue(p.GetRanges("978-1") == nil)
	w.ShouldBeEqual(p.Len(), 2)
}

func TestProvider_RefreshFailuresKeepSnapshot(t *testing.T) {
	type failTest struct {
		name    string
		handler http.HandlerFunc
	}

	for _, tt := range []failTest{
		{"server error", func(rw http.ResponseWriter, _ *http.Request) {
			rw.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(rw http.ResponseWriter, _ *http.Request) {
			rw.Write([]byte(`{"978": [1, 2`))
		}},
		{"empty mapping", func(rw http.ResponseWriter, _ *http.Request) {
			rw.Write([]byte(`{}`))
		}},
		{"inverted interval", func(rw http.ResponseWriter, _ *http.Request) {
			rw.Write([]byte(`{"978": {"name": "bad", "list": [{"start": 10, "end": 5, "length": 1}]}}`))
		}},
		{"table without ranges", func(rw http.ResponseWriter, _ *http.Request) {
			rw.Write([]byte(`{"978": {"name": "bad", "list": []}}`))
		}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			w := expect.WrapT(t)

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			p := w.ShouldHaveResult(New(Config{URL: srv.URL})).(*Provider)
			defer p.Close()

			before := p.Len()
			err := p.Refresh(context.Background())
			w.ShouldFail(err)
			w.Logf("%v", err)

			// the previous snapshot stays in service
			w.ShouldBeEqual(p.Len(), before)
			w.ShouldBeEqual(p.GetRanges("978").Agency, "International ISBN Agency")
		})
	}
}

func TestProvider_RefreshWithoutURL(t *testing.T) {
	w := expect.WrapT(t)
	p := Default()
	defer p.Close()
	w.ShouldFail(p.Refresh(context.Background()))
}

func TestProvider_backgroundRefresh(t *testing.T) {
	w := expect.WrapT(t)

	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.Write([]byte(replacementData))
	}))
	defer srv.Close()

	p := w.ShouldHaveResult(New(Config{
		URL:             srv.URL,
		RefreshInterval: 5 * time.Millisecond,
		FetchTimeout:    time.Second,
	})).(*Provider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for p.GetRanges("978").Agency != "fresh" && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	p.Close()

	w.ShouldBeEqual(p.GetRanges("978").Agency, "fresh")
}

func TestConfigFromEnv(t *testing.T) {
	w := expect.WrapT(t)

	t.Setenv("BOOKCODE_RANGES_URL", "https://example.test/ranges.json")
	t.Setenv("BOOKCODE_REFRESH_INTERVAL", "1h")
	t.Setenv("BOOKCODE_FETCH_TIMEOUT", "5s")

	cfg := w.ShouldHaveResult(ConfigFromEnv()).(Config)
	w.ShouldBeEqual(cfg.URL, "https://example.test/ranges.json")
	w.ShouldBeEqual(cfg.RefreshInterval, time.Hour)
	w.ShouldBeEqual(cfg.FetchTimeout, 5*time.Second)
}
