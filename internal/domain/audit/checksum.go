// Package audit: checksum determinístico de las filas del log de actividad.
// Algoritmo: SHA-256 sobre la concatenación de los campos clave de la fila,
// en orden fijo, separados por '|'. Recalculable a partir de la fila almacenada.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// Checksum calcula el hash que ata (lote, cantidad previa, cantidad nueva,
// timestamp, actor). Cadena: lotID|prev|new|unixNanos|actor, cantidades en
// forma canónica de decimal.String() (sin separador de miles, punto decimal).
// El timestamp se trunca a microsegundos antes de entrar al hash: TIMESTAMPTZ
// solo guarda microsegundos, y la fila releída debe producir el mismo hash que
// la fila recién escrita.
func Checksum(lotID string, previous, next decimal.Decimal, ts time.Time, actor string) string {
	cadena := strings.Join([]string{
		lotID,
		previous.String(),
		next.String(),
		strconv.FormatInt(ts.UTC().Truncate(time.Microsecond).UnixNano(), 10),
		actor,
	}, "|")
	sum := sha256.Sum256([]byte(cadena))
	return hex.EncodeToString(sum[:])
}

// Verify recalcula el checksum de una entrada almacenada y lo compara con el
// guardado. También exige el invariante aritmético new = previous + change;
// si cualquiera de los dos falla, la fila fue alterada o mal escrita.
func Verify(e *entity.InventoryActivityLogEntry) bool {
	if e == nil {
		return false
	}
	if !e.PreviousQuantity.Add(e.QuantityChange).Equal(e.NewQuantity) {
		return false
	}
	return Checksum(e.LotID, e.PreviousQuantity, e.NewQuantity, e.CreatedAt, e.Actor) == e.Checksum
}
