package offline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandlePushFillsDefaults(t *testing.T) {
	p, err := HandlePush([]byte(`{}`))
	require.NoError(t, err)
	require.Equal(t, "FjordSync", p.Title)
	require.Equal(t, "Ny varsling fra FjordSync", p.Body)
	require.Equal(t, "fjordsync-notification", p.Tag)
	require.Equal(t, "/", p.URL)
}

func TestHandlePushKeepsExplicitFields(t *testing.T) {
	p, err := HandlePush([]byte(`{"title":"ILA-varsel","body":"Ny sone ved Bodø","tag":"zones","url":"/zones"}`))
	require.NoError(t, err)
	require.Equal(t, "ILA-varsel", p.Title)
	require.Equal(t, "Ny sone ved Bodø", p.Body)
	require.Equal(t, "zones", p.Tag)
	require.Equal(t, "/zones", p.URL)
}

func TestHandlePushEmptyPayload(t *testing.T) {
	_, err := HandlePush(nil)
	require.Error(t, err)
}

func TestHandlePushInvalidJSON(t *testing.T) {
	_, err := HandlePush([]byte(`{"title":`))
	require.Error(t, err)
}

func TestNotificationClickFocusesOpenContext(t *testing.T) {
	action := HandleNotificationClick("/zones", []string{
		"https://app.example.com/",
		"https://app.example.com/zones?week=35",
	})
	require.True(t, action.Focus)
	require.Equal(t, "https://app.example.com/zones?week=35", action.URL)
}

func TestNotificationClickOpensNewContext(t *testing.T) {
	action := HandleNotificationClick("/zones", []string{"https://app.example.com/health"})
	require.False(t, action.Focus)
	require.Equal(t, "/zones", action.URL)
}

func TestNotificationClickEmptyTarget(t *testing.T) {
	action := HandleNotificationClick("", nil)
	require.False(t, action.Focus)
	require.Equal(t, "/", action.URL)
}
