package game

import (
	"github.com/Faultbox/tickframe/internal/engine/constants"
	"github.com/Faultbox/tickframe/internal/engine/gpu"
	"github.com/Faultbox/tickframe/internal/engine/shader"
)

// Uniform block slots. Frame constants are shader-global, Object constants
// belong to each model.
const (
	frameSlot  = 0
	objectSlot = 1
)

const litVertex = `#version 410 core
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec2 aTexCoord;

layout(std140) uniform Frame {
    mat4 uViewProj;
    vec3 uLightPos;
    float uAmbient;
    vec3 uLightColor;
    vec2 uFog;
};

layout(std140) uniform Object {
    mat4 uWorld;
};

out vec3 vWorldPos;
out vec3 vNormal;
out vec2 vTexCoord;
out float vViewDepth;

void main() {
    vec4 world = uWorld * vec4(aPosition, 1.0);
    vWorldPos = world.xyz;
    vNormal = mat3(uWorld) * aNormal;
    vTexCoord = aTexCoord;
    gl_Position = uViewProj * world;
    // Clip w of a perspective projection is the depth in front of the eye.
    vViewDepth = gl_Position.w;
}
`

const litFragment = `#version 410 core
in vec3 vWorldPos;
in vec3 vNormal;
in vec2 vTexCoord;
in float vViewDepth;

layout(std140) uniform Frame {
    mat4 uViewProj;
    vec3 uLightPos;
    float uAmbient;
    vec3 uLightColor;
    vec2 uFog;
};

uniform sampler2D uTexture;

out vec4 FragColor;

void main() {
    vec4 base = texture(uTexture, vTexCoord);
    vec3 toLight = normalize(uLightPos - vWorldPos);
    float diffuse = max(dot(normalize(vNormal), toLight), 0.0);
    vec3 color = base.rgb * (uAmbient + diffuse * uLightColor);

    float fog = clamp((vViewDepth - uFog.x) / max(uFog.y - uFog.x, 0.001), 0.0, 1.0);
    FragColor = vec4(mix(color, vec3(0.6, 0.65, 0.7), fog), base.a);
}
`

// litKind is the textured, point-lit shader every model draws with.
func litKind() shader.Kind {
	frame := constants.NewBlock("Frame", frameSlot,
		constants.MemberViewProjection,
		constants.MemberPosition,
		constants.MemberAmbientLight,
		constants.MemberColor,
		constants.MemberFogRange,
	)
	object := constants.NewBlock("Object", objectSlot, constants.MemberWorldMatrix)

	return shader.Kind{
		Source: gpu.ProgramSource{
			Name:     "lit",
			Vertex:   litVertex,
			Fragment: litFragment,
			Format:   gpu.FormatPositionNormalUV,
			Blocks: []gpu.BlockBinding{
				{Name: frame.Name(), Slot: frame.Slot()},
				{Name: object.Name(), Slot: object.Slot()},
			},
			Samplers: []string{"uTexture"},
		},
		Global:   constants.NewLayout(frame),
		Instance: constants.NewLayout(object),
	}
}
