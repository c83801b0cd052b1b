package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const computeBudgetStr = "ComputeBudget111111111111111111111111111111"

func TestPubkeyBase58RoundTrip(t *testing.T) {
	p, err := TryPubkeyFromBase58(computeBudgetStr)
	require.NoError(t, err)
	assert.Equal(t, computeBudgetStr, p.String())
	assert.True(t, p.Equals(PubkeyFromBase58(computeBudgetStr)))
}

func TestPubkeyShortString(t *testing.T) {
	p := PubkeyFromBase58(computeBudgetStr)
	assert.Equal(t, "Compute..1111111", p.ShortString())

	// 全 0 公钥编码为 32 个 '1'，同样截断
	assert.Equal(t, "1111111..1111111", Pubkey{}.ShortString())
}

func TestTryPubkeyFromBase58Invalid(t *testing.T) {
	_, err := TryPubkeyFromBase58("0OIl")
	assert.Error(t, err, "非 base58 字符")

	_, err = TryPubkeyFromBase58("1111")
	assert.Error(t, err, "长度不足 32 字节")

	assert.Panics(t, func() { PubkeyFromBase58("bad!") })
}

func TestPubkeyFromBytes(t *testing.T) {
	b := make([]byte, PubkeySize)
	b[31] = 9
	p, err := PubkeyFromBytes(b)
	require.NoError(t, err)
	b[31] = 0
	assert.Equal(t, byte(9), p[31], "应拷贝而非借用")

	_, err = PubkeyFromBytes(b[:31])
	assert.Error(t, err)
}

func TestHashFromBase58(t *testing.T) {
	h, err := HashFromBase58(computeBudgetStr)
	require.NoError(t, err)
	assert.Equal(t, computeBudgetStr, h.String())
	assert.True(t, h.Equals(h))

	_, err = HashFromBase58("1111")
	assert.Error(t, err)
}

func TestApplicationDomain(t *testing.T) {
	var d ApplicationDomain
	assert.True(t, d.IsEmpty())
	d[0] = 1
	assert.False(t, d.IsEmpty())
	assert.NotEmpty(t, d.String())
}
