//go:build !siws_small

package siws

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testHeader    = "localhost:3001 wants you to sign in with your Solana account:\n"
	testAddress   = "9Pr7yXpVtAVVzEivf8aUNAPDLXXmiHFsMshgjJSySGpn"
	testStatement = "Clicking Sign or Approve only means you have proved this wallet is owned by you. This request will not trigger any blockchain transaction or cost any gas fee."
)

func fullMessage(fields string) string {
	return testHeader + testAddress + "\n\n" + testStatement + "\n\n" + fields
}

const validFields = "Version: 1\n" +
	"Chain ID: mainnet\n" +
	"Request ID: 2137\n" +
	"Not Before: 2023-10-13 13:33:00\n" +
	"Nonce: oBbLoEldZs\n" +
	"URI: http://localhost:3001\n" +
	"Issued At: 2023-10-10T07:22:44.343Z\n" +
	"Expiration Time: 2023-10-13\n" +
	"Resources:\n" +
	"- https://example.com\n" +
	"- https://phantom.app/"

// parseString 在可写副本上解析，返回解析器、缓冲区与结果
func parseString(t *testing.T, s string) (*Parser, []byte, *Message, error) {
	t.Helper()
	buf := []byte(s)
	p := NewParser(buf)
	msg, err := p.Parse()
	return p, buf, msg, err
}

// requireRejected 解析必须失败，且缓冲区已自动恢复
func requireRejected(t *testing.T, s string, target error) {
	t.Helper()
	p, buf, msg, err := parseString(t, s)
	require.Error(t, err, "解析应失败")
	if target != nil {
		assert.ErrorIs(t, err, target)
	}
	assert.Nil(t, msg)
	assert.Equal(t, s, string(buf), "失败后缓冲区必须与原始输入一致")
	assert.Zero(t, p.Changes(), "失败后改写记录应已清空")
}

func TestParseValidMessage(t *testing.T) {
	input := fullMessage(validFields)
	p, buf, msg, err := parseString(t, input)
	require.NoError(t, err)

	assert.Equal(t, "localhost:3001", string(msg.Domain))
	assert.Equal(t, testAddress, string(msg.Address))
	assert.Equal(t, testStatement, string(msg.Statement))
	assert.Equal(t, "1", string(msg.Version))
	assert.Equal(t, "mainnet", string(msg.ChainID))
	assert.Equal(t, "2137", string(msg.RequestID))
	assert.Equal(t, "2023-10-13 13:33:00", string(msg.NotBefore))
	assert.Equal(t, "oBbLoEldZs", string(msg.Nonce))
	assert.Equal(t, "http://localhost:3001", string(msg.URI))
	assert.Equal(t, "2023-10-10T07:22:44.343Z", string(msg.IssuedAt))
	assert.Equal(t, "2023-10-13", string(msg.ExpirationTime))
	require.Equal(t, 2, msg.ResourceCount)
	assert.Equal(t, "https://example.com", string(msg.Resources[0]))
	assert.Equal(t, "https://phantom.app/", string(msg.Resources[1]))
	assert.Nil(t, msg.Resources[2])

	// 成功后终止符保留在缓冲区中
	offsets := []int{14, 61, 106, 107, 266, 267, 278, 296, 313, 345, 363, 390, 426, 454, 465, 487}
	assert.Equal(t, len(offsets), p.Changes())
	for _, off := range offsets {
		assert.Equal(t, byte(0x00), buf[off], "offset=%d 应被改写为终止符", off)
	}

	p.Rollback()
	assert.Equal(t, input, string(buf), "回滚后应恢复原始字节")
	assert.Equal(t, byte(' '), buf[14])
	for _, off := range offsets[1:] {
		assert.Equal(t, byte('\n'), buf[off], "offset=%d 应恢复为 LF", off)
	}

	// 再次回滚无副作用
	p.Rollback()
	assert.Equal(t, input, string(buf))
}

func TestParseResourcesFirst(t *testing.T) {
	input := fullMessage("Resources:\n" +
		"- https://example.com\n" +
		"- https://phantom.app/\n" +
		"Version: 1\n" +
		"Chain ID: mainnet\n" +
		"Request ID: 2137\n" +
		"Not Before: 2023-10-13 13:33:00\n" +
		"Nonce: oBbLoEldZs\n" +
		"URI: http://localhost:3001\n" +
		"Issued At: 2023-10-10T07:22:44.343Z\n" +
		"Expiration Time: 2023-10-13\n" +
		"\n")
	_, _, msg, err := parseString(t, input)
	require.NoError(t, err)

	assert.Equal(t, "1", string(msg.Version))
	assert.Equal(t, "mainnet", string(msg.ChainID))
	assert.Equal(t, "2023-10-13", string(msg.ExpirationTime))
	require.Equal(t, 2, msg.ResourceCount)
	assert.Equal(t, "https://example.com", string(msg.Resources[0]))
	assert.Equal(t, "https://phantom.app/", string(msg.Resources[1]))
	assert.Nil(t, msg.Resources[2])
}

func TestParseMinimalMessage(t *testing.T) {
	_, _, msg, err := parseString(t, testHeader+testAddress)
	require.NoError(t, err)

	assert.Equal(t, "localhost:3001", string(msg.Domain))
	assert.Equal(t, testAddress, string(msg.Address))
	assert.Nil(t, msg.Statement)
	assert.Nil(t, msg.Version)
	assert.Nil(t, msg.ChainID)
	assert.Nil(t, msg.RequestID)
	assert.Nil(t, msg.NotBefore)
	assert.Nil(t, msg.Nonce)
	assert.Nil(t, msg.URI)
	assert.Nil(t, msg.IssuedAt)
	assert.Nil(t, msg.ExpirationTime)
	assert.Zero(t, msg.ResourceCount)
}

func TestParseMinimalMessageTrailingNewline(t *testing.T) {
	input := "example.com wants you to sign in with your Solana account:\n" + testAddress + "\n"
	p, buf, msg, err := parseString(t, input)
	require.NoError(t, err)
	assert.Equal(t, "example.com", string(msg.Domain))
	assert.Equal(t, testAddress, string(msg.Address))

	p.Rollback()
	assert.Equal(t, input, string(buf), "成功解析后显式回滚应完全恢复")
}

func TestParseMinimalMessageLoneBlankLine(t *testing.T) {
	// address 之后只剩一个 LF，不进入正文解析
	_, _, msg, err := parseString(t, testHeader+testAddress+"\n\n")
	require.NoError(t, err)
	assert.Nil(t, msg.Statement)
}

func TestParseInvalidMinimalMessage(t *testing.T) {
	requireRejected(t, testHeader+testAddress+"\nstatement in wrong spot", ErrMissingDelimiter)
}

func TestParseInvalidVersionRollsBack(t *testing.T) {
	requireRejected(t, fullMessage(strings.Replace(validFields, "Version: 1", "Version: 2", 1)), ErrUnsupportedVersion)
}

func TestParseInvalidNonce(t *testing.T) {
	requireRejected(t, fullMessage(strings.Replace(validFields, "oBbLoEldZs", "1234", 1)), ErrInvalidNonce)
	requireRejected(t, fullMessage(strings.Replace(validFields, "oBbLoEldZs", "@notalphanum!!", 1)), ErrInvalidNonce)
}

func TestParseShortNonceSimpleMessage(t *testing.T) {
	input := "example.com wants you to sign in with your Solana account:\n" +
		testAddress + "\n\nStmt\n\nNonce: short\n"
	requireRejected(t, input, ErrInvalidNonce)
}

func TestParseInvalidAddress(t *testing.T) {
	input := testHeader + "9Pr7yXpMshgjJSySGpn\n\n" + testStatement + "\n\n" +
		strings.Replace(validFields, "oBbLoEldZs", "randomNonce", 1)
	requireRejected(t, input, ErrInvalidAddress)
}

func TestParseInvalidChainID(t *testing.T) {
	requireRejected(t, fullMessage(strings.Replace(validFields, "Chain ID: mainnet", "Chain ID: mynet", 1)), ErrInvalidChainID)
}

func TestParseInvalidSeparator(t *testing.T) {
	requireRejected(t, fullMessage(strings.Replace(validFields, "Request ID: 2137", "Request ID 2137", 1)), ErrInvalidSeparator)
	requireRejected(t, fullMessage(strings.Replace(validFields, "Request ID: 2137", "Request ID:2137", 1)), ErrInvalidSeparator)
}

func TestParseInvalidResourcePrefix(t *testing.T) {
	requireRejected(t, fullMessage(strings.Replace(validFields, "- https://example.com", " https://example.com", 1)), ErrMissingResourcePrefix)
	requireRejected(t, fullMessage(strings.Replace(validFields, "- https://example.com", "https://example.com", 1)), ErrMissingResourcePrefix)
}

func resourceLines(n int) string {
	var sb strings.Builder
	sb.WriteString("Resources:\n")
	for i := 1; i <= n; i++ {
		if i > 1 {
			sb.WriteString("\n")
		}
		sb.WriteString("- https://example")
		sb.WriteString(strings.Repeat("x", i))
		sb.WriteString(".com")
	}
	return sb.String()
}

func TestParseFullResourcesTable(t *testing.T) {
	_, _, msg, err := parseString(t, fullMessage(resourceLines(MaxResources)))
	require.NoError(t, err)

	assert.Nil(t, msg.Version)
	assert.Nil(t, msg.Nonce)
	require.Equal(t, MaxResources, msg.ResourceCount)
	for i := 0; i < MaxResources; i++ {
		assert.Equal(t, "https://example"+strings.Repeat("x", i+1)+".com", string(msg.Resources[i]))
	}
}

func TestParseResourcesBeyondCapacity(t *testing.T) {
	// 第 11 条不是错误，列表在容量处截止，剩余行按普通行继续解析
	input := fullMessage(resourceLines(MaxResources+1) + "\nNonce: oBbLoEldZs\n")
	p, buf, msg, err := parseString(t, input)
	require.NoError(t, err)
	assert.Equal(t, MaxResources, msg.ResourceCount)
	assert.Equal(t, "oBbLoEldZs", string(msg.Nonce), "容量之后的行仍参与字段解析")

	p.Rollback()
	assert.Equal(t, input, string(buf))
}

// namedFieldLines 全部 8 个命名字段
const namedFieldLines = "Version: 1\n" +
	"Chain ID: mainnet\n" +
	"Request ID: 2137\n" +
	"Not Before: 2023-10-13 13:33:00\n" +
	"Nonce: oBbLoEldZs\n" +
	"URI: http://localhost:3001\n" +
	"Issued At: 2023-10-10T07:22:44.343Z\n" +
	"Expiration Time: 2023-10-13\n"

func TestParseAllFieldsBeyondResourceCapacity(t *testing.T) {
	// 全部字段加满资源列表恰好用尽改写预算，之后的行只切分不改写
	for _, extra := range []int{1, 5} {
		input := fullMessage(namedFieldLines + resourceLines(MaxResources+extra) + "\nRequest ID: 42\n")
		p, buf, msg, err := parseString(t, input)
		require.NoError(t, err, "extra=%d", extra)
		assert.Equal(t, MaxResources, msg.ResourceCount)
		assert.Equal(t, "oBbLoEldZs", string(msg.Nonce))
		assert.Equal(t, "42", string(msg.RequestID), "容量之后的字段仍覆盖之前的值")
		assert.Equal(t, ChangeLogCapacity, p.Changes())

		p.Rollback()
		assert.Equal(t, input, string(buf), "回滚后缓冲区必须与原始输入一致")
	}
}

func TestParseAllFieldsFullResources(t *testing.T) {
	input := fullMessage(namedFieldLines + resourceLines(MaxResources) + "\n")
	p, buf, msg, err := parseString(t, input)
	require.NoError(t, err)
	assert.Equal(t, MaxResources, msg.ResourceCount)
	assert.Equal(t, ChangeLogCapacity, p.Changes())

	p.Rollback()
	assert.Equal(t, input, string(buf))
}

func TestParseUnknownLinesIgnored(t *testing.T) {
	_, _, msg, err := parseString(t, fullMessage("Foo: bar\nversion: 7\nNonce: oBbLoEldZs\n"))
	require.NoError(t, err)
	assert.Nil(t, msg.Version, "字段名大小写敏感")
	assert.Equal(t, "oBbLoEldZs", string(msg.Nonce))
}

func TestParseTooManyRewrites(t *testing.T) {
	input := fullMessage(strings.Repeat("Unknown: x\n", ChangeLogCapacity))
	requireRejected(t, input, ErrChangeLogFull)
}

func TestParseEmptyStatement(t *testing.T) {
	requireRejected(t, testHeader+testAddress+"\n\n\n\nNonce: oBbLoEldZs\n", ErrEmptyStatement)
}

func TestParseRequiredFieldsNotPresent(t *testing.T) {
	requireRejected(t, testHeader, nil)
}

func TestParseNoSpaceInFirstLine(t *testing.T) {
	requireRejected(t, "localhost:3001\n"+testAddress, nil)
}

func TestParseWrongPreamble(t *testing.T) {
	requireRejected(t, "localhost:3001 wants you to sign in with your Ethereum account:\n"+testAddress, ErrInvalidPreamble)
}

func TestParseEmptyBuffer(t *testing.T) {
	requireRejected(t, "", nil)
}

func TestParserSingleUse(t *testing.T) {
	p, _, _, err := parseString(t, testHeader+testAddress)
	require.NoError(t, err)

	_, err = p.Parse()
	assert.ErrorIs(t, err, ErrParserInUse, "同一解析器不能重复解析")
}

func TestRollbackWithoutParse(t *testing.T) {
	buf := []byte(testHeader + testAddress)
	p := NewParser(buf)
	p.Rollback()
	assert.Equal(t, testHeader+testAddress, string(buf))
}
