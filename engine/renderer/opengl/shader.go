package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const worldVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;

uniform mat4 mvp;
uniform mat4 model;
uniform mat3 normalMatrix;

out vec3 fragNormal;
out vec3 fragWorldPos;

void main() {
    fragWorldPos = (model * vec4(inPosition, 1.0)).xyz;
    fragNormal = normalMatrix * inNormal;
    gl_Position = mvp * vec4(inPosition, 1.0);
}
` + "\x00"

const worldFragSrc = `
#version 410 core
const int MAX_DIR_LIGHTS = 4;

in vec3 fragNormal;
in vec3 fragWorldPos;

uniform vec3 baseColor;
uniform float metallic;
uniform float roughness;
uniform vec3 cameraPos;

uniform vec3 ambientColor;
uniform vec3 hemiSky;
uniform vec3 hemiGround;
uniform int dirLightCount;
uniform vec3 dirLightDir[MAX_DIR_LIGHTS];
uniform vec3 dirLightColor[MAX_DIR_LIGHTS];

uniform bool useEnvironment;
uniform vec3 sh[9];

out vec4 outColor;

vec3 irradianceSH(vec3 n) {
    return sh[0] * 0.282095
         + sh[1] * 0.488603 * n.y
         + sh[2] * 0.488603 * n.z
         + sh[3] * 0.488603 * n.x
         + sh[4] * 1.092548 * n.x * n.y
         + sh[5] * 1.092548 * n.y * n.z
         + sh[6] * 0.315392 * (3.0 * n.z * n.z - 1.0)
         + sh[7] * 1.092548 * n.x * n.z
         + sh[8] * 0.546274 * (n.x * n.x - n.y * n.y);
}

void main() {
    vec3 n = normalize(fragNormal);
    if (!gl_FrontFacing) {
        n = -n;
    }
    vec3 v = normalize(cameraPos - fragWorldPos);
    vec3 diffuseColor = baseColor * (1.0 - metallic);
    vec3 specColor = mix(vec3(0.04), baseColor, metallic);
    float shininess = mix(256.0, 4.0, clamp(roughness, 0.0, 1.0));

    vec3 light = ambientColor + mix(hemiGround, hemiSky, n.y * 0.5 + 0.5);
    if (useEnvironment) {
        light += max(irradianceSH(n), vec3(0.0));
    }
    vec3 color = diffuseColor * light;

    for (int i = 0; i < MAX_DIR_LIGHTS; i++) {
        if (i >= dirLightCount) {
            break;
        }
        vec3 l = -normalize(dirLightDir[i]);
        float ndl = max(dot(n, l), 0.0);
        vec3 h = normalize(l + v);
        float spec = pow(max(dot(n, h), 0.0), shininess) * (shininess + 8.0) / 25.13274;
        color += (diffuseColor + specColor * spec) * dirLightColor[i] * ndl;
    }

    // Reinhard, then gamma
    color = color / (color + vec3(1.0));
    outColor = vec4(pow(color, vec3(1.0 / 2.2)), 1.0);
}
` + "\x00"

const overlayVertSrc = `
#version 410 core
layout(location = 0) in vec2 inCorner;

uniform vec4 rect;
uniform vec2 screen;

out vec2 fragUV;

void main() {
    vec2 px = rect.xy + inCorner * rect.zw;
    vec2 ndc = vec2(px.x / screen.x * 2.0 - 1.0, 1.0 - px.y / screen.y * 2.0);
    fragUV = inCorner;
    gl_Position = vec4(ndc, 0.0, 1.0);
}
` + "\x00"

const overlayFragSrc = `
#version 410 core
in vec2 fragUV;

uniform sampler2D panel;
uniform float opacity;

out vec4 outColor;

void main() {
    // panel texels are premultiplied
    outColor = texture(panel, fragUV) * opacity;
}
` + "\x00"

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", log)
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}

func uniform(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}
