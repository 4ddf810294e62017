package core

import (
	"errors"
)

var (
	ErrNoActiveContext   = errors.New("no active rendering context")
	ErrNoShaderProgram   = errors.New("no shader program bound")
	ErrNoRenderTarget    = errors.New("no render target bound")
	ErrNoVertexBuffer    = errors.New("no vertex buffer bound")
	ErrNoIndexBuffer     = errors.New("no index buffer bound")
	ErrNotSupported      = errors.New("capability not supported")
	ErrSingularMatrix    = errors.New("matrix is not invertible")
	ErrInstanceCount     = errors.New("instance count out of range")
	ErrSkeletalUnhandled = errors.New("skeletal meshes are not handled yet")
)
