package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderNumber: zaman damgası + rastgele ekten sipariş numarası üretir.
// Numara sadece oluşturma anında bir kez üretilir; benzersizlik veritabanındaki
// unique index ile garanti edilir.
func GenerateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("SIP-%s-%s", time.Now().Format("20060102"), suffix)
}
