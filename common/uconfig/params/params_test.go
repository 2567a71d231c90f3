/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package params

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstraints(t *testing.T) {
	p := New()
	p.SetConstraint("timeout", 1, 300, 30)
	p.SetConstraint("theme", 0, 0, "system")

	require.Equal(t, 30, p.Get("timeout").Int())
	require.Equal(t, "system", p.Get("theme").String())

	p.Set("timeout", 45)
	require.Equal(t, 45, p.Get("timeout").Int())

	p.Set("timeout", 5000)
	require.Equal(t, 30, p.Get("timeout").Int())

	p.Set("timeout", "0")
	require.Equal(t, 30, p.Get("timeout").Int())

	p.Set("theme", "")
	require.Equal(t, "system", p.Get("theme").String())

	p.Set("theme", "dark")
	p.Delete("theme")
	require.Equal(t, "system", p.Get("theme").String())
	require.True(t, p.Exists("theme"))
	require.False(t, p.Exists("missing"))
	require.Equal(t, "", p.Get("missing").String())
}

func TestMergeKeepsConstraints(t *testing.T) {
	p := New()
	p.SetConstraint("timeout", 1, 300, 30)

	loaded := New()
	loaded.Data["timeout"] = Element{Value: "999", Default: "1", Min: 0, Max: 0}
	loaded.Data["extra"] = Element{Value: "x"}

	p.Merge(loaded)
	require.Equal(t, 30, p.Get("timeout").Int())
	require.Equal(t, "x", p.Get("extra").String())
}

func TestValueConversions(t *testing.T) {
	require.Equal(t, 12, Value(" 12 ").Int())
	require.Equal(t, 0, Value("x").Int())
	require.True(t, Value("true").Bool())
	require.False(t, Value("nope").Bool())
	require.Equal(t, []string{"a", "b"}, Value("a, ,b").SplitList())
	require.Nil(t, Value("").SplitList())
}
