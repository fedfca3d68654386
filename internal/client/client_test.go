package client

import (
	"rchat/internal/crypto"
	"rchat/internal/domain"
)

func testChatCode() (domain.ChatCode, error) {
	return crypto.GenerateChatCode(domain.ChatCodeStrong)
}
