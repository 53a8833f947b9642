package domain

import "errors"

// Tipos de error del robot. Se envuelven con fmt.Errorf("...: %w", ErrX)
// y se clasifican con errors.Is.
var (
	// ErrConfig indica una configuración ausente o inválida. Fatal al arrancar.
	ErrConfig = errors.New("config error")

	// ErrBootstrapIO indica un fallo leyendo o escribiendo un archivo de cuentas
	// (distinto de "no existe").
	ErrBootstrapIO = errors.New("bootstrap io error")

	// ErrParse indica datos persistidos corruptos o un amount/price del listing
	// que no es un entero sin signo válido.
	ErrParse = errors.New("parse error")

	// ErrGateway indica un fallo en la consulta remota de listings.
	// El scheduler lo contiene por tick: loguea y sigue.
	ErrGateway = errors.New("gateway error")

	// ErrStorage indica un fallo del almacenamiento durable.
	ErrStorage = errors.New("storage error")
)
