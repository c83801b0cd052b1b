package offchain

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"unicode/utf8"

	"ledger-sol-parser/internal/config"
	"ledger-sol-parser/internal/consts"
	"ledger-sol-parser/internal/logic/siws"
	"ledger-sol-parser/internal/logic/summary"
	"ledger-sol-parser/internal/parser"
	"ledger-sol-parser/internal/pkg/logger"
	"ledger-sol-parser/internal/types"
)

const (
	headerVersion = 0

	titleSign         = "Sign"
	titleSignIn       = "Sign In"
	titleSigner       = "Signer"
	titleOtherSigners = "Other signers"
	titleApplication  = "Application"
	titleVersion      = "Version"
	titleFormat       = "Format"
	titleSize         = "Size"
	titleHash         = "Hash"
	titleMessage      = "Message"
)

var (
	textOffchainMessage = []byte("Off-Chain Message")
	textWithSolana      = []byte("With Solana")
	textNoDomain        = []byte("Domain not provided")
)

var (
	ErrMessageTooLong    = errors.New("offchain: message too long")
	ErrInvalidHeader     = errors.New("offchain: invalid message header")
	ErrSignerNotFound    = errors.New("offchain: signer not in signers list")
	ErrInvalidFormat     = errors.New("offchain: invalid message format")
	ErrBlindSignDisabled = errors.New("offchain: non-ascii message requires blind signing")
)

// Reviewer 校验链下消息并生成待展示摘要
type Reviewer struct {
	cfg config.ReviewConfig
}

func NewReviewer(cfg config.ReviewConfig) *Reviewer {
	return &Reviewer{cfg: cfg}
}

// Result 一次审阅的结果。Body 与 SIWS 借用调用方缓冲区。
type Result struct {
	Header      *Header
	Body        []byte
	SignerIndex int
	IsASCII     bool
	Hash        *types.Hash // 仅在非 ASCII 或 expert 模式下计算
	SIWS        *siws.Message
	Summary     *summary.Summary
	Kinds       []summary.Kind
	Flags       summary.DisplayFlags

	buf        []byte
	hash       types.Hash
	siwsParser *siws.Parser
}

// NumItems 展示条目数
func (r *Result) NumItems() int {
	return len(r.Kinds)
}

func (r *Result) DisplayItem(index int) (title string, text string, err error) {
	return r.Summary.DisplayItem(index, r.Flags)
}

// SigningPayload 恢复 SIWS 解析留下的终止符后返回完整原始消息。
// 调用之后 SIWS 中的字段视图不再可用。
func (r *Result) SigningPayload() []byte {
	if r.siwsParser != nil {
		r.siwsParser.Rollback()
	}
	return r.buf
}

// Review 校验 buf（含消息头）并以 signer 的身份构建摘要
func (rv *Reviewer) Review(buf []byte, signer types.Pubkey) (*Result, error) {
	if len(buf) > consts.MaxOffchainMessageLength {
		logger.Warnf("[Offchain] 消息过长: size=%d, max=%d", len(buf), consts.MaxOffchainMessageLength)
		return nil, ErrMessageTooLong
	}

	// 1. 解析并校验消息头
	c := parser.NewCursor(buf)
	header, err := ParseHeader(c)
	if err != nil {
		logger.Warnf("[Offchain] 消息头解析失败: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	if err := validateHeader(header, c.Remaining()); err != nil {
		logger.Warnf("[Offchain] 消息头非法: %v, version=%d, format=%d, length=%d, remaining=%d, signers=%d",
			err, header.Version, header.Format, header.Length, c.Remaining(), header.Signers.Len())
		return nil, err
	}

	signerIndex, ok := header.Signers.Index(signer)
	if !ok {
		logger.Warnf("[Offchain] 签名者不在列表中: %s", signer.ShortString())
		return nil, ErrSignerNotFound
	}

	// 2. 正文编码
	body := c.Bytes()
	isASCII := IsASCII(body)
	if !isASCII && (header.Format != FormatLimitedUTF8 || !utf8.Valid(body)) {
		logger.Warnf("[Offchain] 消息格式非法: format=%d, ascii=%v", header.Format, isASCII)
		return nil, ErrInvalidFormat
	}
	if !isASCII && !rv.cfg.AllowBlindSign {
		return nil, ErrBlindSignDisabled
	}

	r := &Result{
		Header:      header,
		Body:        body,
		SignerIndex: signerIndex,
		IsASCII:     isASCII,
		Summary:     summary.New(),
		buf:         buf,
	}
	if rv.cfg.LongPubkeys() {
		r.Flags |= summary.DisplayFlagLongPubkeys
	}

	// 3. 只对正文计算哈希
	if !isASCII || rv.cfg.Expert() {
		r.hash = sha256.Sum256(body)
		r.Hash = &r.hash
	}

	// 4. ASCII 正文优先按 SIWS 展示，摘要槽位不足时退回整段展示
	if isASCII {
		r.trySIWS()
	}
	if err := rv.buildSummary(r); err != nil {
		if r.SIWS == nil {
			return nil, err
		}
		logger.Warnf("[Offchain] SIWS 摘要构建失败，退回原文展示: %v", err)
		r.siwsParser.Rollback()
		r.SIWS = nil
		if err := rv.buildSummary(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func validateHeader(h *Header, remaining int) error {
	switch {
	case h.Version != headerVersion:
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidHeader, h.Version)
	case h.Format > FormatLimitedUTF8:
		return fmt.Errorf("%w: unsupported format %d", ErrInvalidHeader, h.Format)
	case h.Length == 0 || int(h.Length) != remaining:
		return fmt.Errorf("%w: length %d, remaining %d", ErrInvalidHeader, h.Length, remaining)
	case h.Signers.Len() == 0:
		return fmt.Errorf("%w: no signers", ErrInvalidHeader)
	}
	return nil
}

func (r *Result) trySIWS() {
	p := siws.NewParser(r.Body)
	msg, err := p.Parse()
	if err != nil {
		return
	}
	r.SIWS = msg
	r.siwsParser = p
}

func (rv *Reviewer) buildSummary(r *Result) error {
	s := r.Summary
	s.Reset()
	h := r.Header

	if r.SIWS != nil {
		s.Primary().SetString(titleSignIn, textWithSolana)
	} else {
		s.Primary().SetString(titleSign, textOffchainMessage)
	}
	s.FeePayer().SetPubkey(titleSigner, h.Signers.At(r.SignerIndex))

	if n := h.Signers.Len(); n > 1 {
		item, err := s.MustGeneral()
		if err != nil {
			return err
		}
		item.SetU64(titleOtherSigners, uint64(n))
	}

	item, err := s.MustGeneral()
	if err != nil {
		return err
	}
	if h.ApplicationDomain.IsEmpty() {
		item.SetString(titleApplication, textNoDomain)
	} else {
		item.SetApplicationDomain(titleApplication, h.ApplicationDomain)
	}

	if rv.cfg.Expert() {
		for _, f := range []struct {
			title string
			value uint64
		}{
			{titleVersion, uint64(h.Version)},
			{titleFormat, uint64(h.Format)},
			{titleSize, uint64(h.Length)},
		} {
			item, err := s.MustGeneral()
			if err != nil {
				return err
			}
			item.SetU64(f.title, f.value)
		}
	}
	if r.Hash != nil {
		item, err := s.MustGeneral()
		if err != nil {
			return err
		}
		item.SetHash(titleHash, r.Hash)
	}

	if r.IsASCII {
		if r.SIWS != nil {
			if err := r.SIWS.AddSummary(s); err != nil {
				return err
			}
		} else {
			item, err := s.MustGeneral()
			if err != nil {
				return err
			}
			item.SetExtendedString(titleMessage, r.Body)
		}
	}

	kinds, err := s.Finalize()
	if err != nil {
		return err
	}
	r.Kinds = kinds
	return nil
}

// IsASCII 可打印 ASCII 与换行符
func IsASCII(data []byte) bool {
	for _, b := range data {
		if (b < 0x20 && b != '\n') || b > 0x7e {
			return false
		}
	}
	return true
}
