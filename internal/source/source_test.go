package source

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries(n int) []Entry {
	out := make([]Entry, n)
	for i := range out {
		out[i] = Entry{Name: fmt.Sprintf("entry-%03d", i)}
	}
	return out
}

func TestStaticPagesThroughAllItems(t *testing.T) {
	src := NewStatic(entries(25))
	ctx := context.Background()

	var got []Entry
	token := ""
	pages := 0
	for {
		page, err := src.Fetch(ctx, Request{Token: token, PageSize: 10})
		require.NoError(t, err)
		got = append(got, page.Items...)
		pages++
		if !page.HasMore {
			break
		}
		token = page.NextToken
	}

	assert.Equal(t, 3, pages)
	assert.Equal(t, entries(25), got)
}

func TestStaticLastPageHasNoToken(t *testing.T) {
	src := NewStatic(entries(10))

	page, err := src.Fetch(context.Background(), Request{PageSize: 10})
	require.NoError(t, err)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.NextToken)
	assert.Len(t, page.Items, 10)
}

func TestStaticRejectsBadToken(t *testing.T) {
	src := NewStatic(entries(5))

	_, err := src.Fetch(context.Background(), Request{Token: "not-a-token", PageSize: 5})
	assert.Error(t, err)

	_, err = src.Fetch(context.Background(), Request{Token: "-3", PageSize: 5})
	assert.Error(t, err)
}

func TestStaticRejectsBadPageSize(t *testing.T) {
	src := NewStatic(entries(5))
	_, err := src.Fetch(context.Background(), Request{PageSize: 0})
	assert.Error(t, err)
}

func TestStaticFailNextFailsOnceThenRecovers(t *testing.T) {
	src := NewStatic(entries(5))
	boom := errors.New("backend unavailable")
	src.FailNext = boom

	_, err := src.Fetch(context.Background(), Request{PageSize: 5})
	assert.ErrorIs(t, err, boom)

	// Same request succeeds on retry.
	page, err := src.Fetch(context.Background(), Request{PageSize: 5})
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
}

func TestStaticHonorsCancellation(t *testing.T) {
	src := NewStatic(entries(5))
	src.Delay = 5 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Fetch(ctx, Request{PageSize: 5})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEntrySearchKeys(t *testing.T) {
	assert.Equal(t, []string{"report.pdf"}, Entry{Name: "report.pdf"}.SearchKeys())
	assert.Equal(t,
		[]string{"report.pdf", "/inbox/2026"},
		Entry{Name: "report.pdf", Detail: "/inbox/2026"}.SearchKeys())
}

func TestCleanLineStripsANSIAndBadUTF8(t *testing.T) {
	assert.Equal(t, "plain", CleanLine("\x1b[31mplain\x1b[0m"))
	assert.Equal(t, "a�b", CleanLine("a\xffb"))
}

func TestParseLineSplitsOnTab(t *testing.T) {
	assert.Equal(t, Entry{Name: "a.txt", Detail: "12kb"}, parseLine("a.txt\t12kb"))
	assert.Equal(t, Entry{Name: "a.txt"}, parseLine("a.txt"))
}

func TestNewExecRejectsBadCommands(t *testing.T) {
	_, err := NewExec("")
	assert.Error(t, err)

	_, err = NewExec(`ls "unterminated`)
	assert.Error(t, err)
}

func TestExecPagesCommandOutput(t *testing.T) {
	src, err := NewExec(`printf 'one\ntwo\nthree\n'`)
	require.NoError(t, err)

	page, err := src.Fetch(context.Background(), Request{PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Name: "one"}, {Name: "two"}}, page.Items)
	require.True(t, page.HasMore)

	page, err = src.Fetch(context.Background(), Request{Token: page.NextToken, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Name: "three"}}, page.Items)
	assert.False(t, page.HasMore)
}

func TestExecFailingCommandSurfacesError(t *testing.T) {
	src, err := NewExec("false")
	require.NoError(t, err)

	_, err = src.Fetch(context.Background(), Request{PageSize: 10})
	assert.Error(t, err)
}
